// Fixbench measures per-operation latency of a fixmap as it fills up.
//
// It inserts seeded pseudo-random uint32 keys until the map is full,
// timing each insert and one lookup of a random stored key at every fill
// level. It then removes random keys down to half capacity, timing each
// removal. Results are written as CSV with one row per fill level:
//
//	fill,insert_ns,get_ns,remove_ns
//
// Row f covers the step between f and f+1 entries: the insert that grows the
// map from f, the lookup right after it and the removal that shrinks it back
// to f. remove_ns is empty below half capacity.
//
// Usage:
//
//	go run ./cmd/fixbench -capacity 16384 -hash xxh3 -out fill.csv
//
// Flags:
//
//	-capacity  Map capacity, a power of two (default: 4096)
//	-seed      PCG seed for key generation (default: 1)
//	-hash      Key digest: fnv1a, xxhash, xxh3 or murmur3 (default: fnv1a)
//	-width     Index width: standard or extended (default: standard)
//	-out       CSV output path, stdout if empty
//	-v         Log map lifecycle events at debug level
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	randv2 "math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/agilira/fixmap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options holds the parsed command line.
type options struct {
	capacity int
	seed     uint64
	hash     fixmap.HashAlgorithm
	width    fixmap.IndexWidth
	out      string
	verbose  bool
}

// sample is the latency of each operation observed at one fill level.
// Negative values mean the operation was not measured there.
type sample struct {
	insert, get, remove int64
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("fixbench", flag.ContinueOnError)
	capacity := fs.Int("capacity", 4096, "map capacity (power of two)")
	seed := fs.Uint64("seed", 1, "PCG seed for key generation")
	hash := fs.String("hash", "fnv1a", "key digest: fnv1a, xxhash, xxh3 or murmur3")
	width := fs.String("width", "standard", "index width: standard or extended")
	out := fs.String("out", "", "CSV output path (stdout if empty)")
	verbose := fs.Bool("v", false, "log map lifecycle events at debug level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{capacity: *capacity, seed: *seed, out: *out, verbose: *verbose}

	var ok bool
	if opts.hash, ok = fixmap.ParseHashAlgorithm(*hash); !ok {
		return options{}, fixmap.NewErrInvalidConfig("hash", *hash)
	}
	if opts.width, ok = fixmap.ParseIndexWidth(*width); !ok {
		return options{}, fixmap.NewErrInvalidConfig("width", *width)
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// measure fills a map built from opts and drains it to half capacity.
// samples[f] describes the step between f and f+1 entries.
func measure(opts options, logger *zap.Logger) ([]sample, error) {
	m, err := fixmap.New[uint32, uint32](fixmap.Config{
		Capacity:      opts.capacity,
		IndexWidth:    opts.width,
		HashAlgorithm: opts.hash,
		Logger:        fixmap.NewZapLogger(logger),
	})
	if err != nil {
		return nil, err
	}

	rng := randv2.New(randv2.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	samples := make([]sample, m.Cap())
	for i := range samples {
		samples[i] = sample{insert: -1, get: -1, remove: -1}
	}
	keys := make([]uint32, 0, m.Cap())

	for !m.IsFull() {
		k := rng.Uint32()
		if m.ContainsKey(k) {
			continue
		}
		fill := m.Len()

		start := time.Now()
		_, _, err := m.Insert(k, uint32(fill)) // #nosec G115 - fill is below capacity
		samples[fill].insert = time.Since(start).Nanoseconds()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)

		probe := keys[rng.IntN(len(keys))]
		start = time.Now()
		_, found := m.Get(probe)
		samples[fill].get = time.Since(start).Nanoseconds()
		if !found {
			return nil, fixmap.NewErrCorruptedTable("reachable", fmt.Sprintf("key %d lost at fill %d", probe, fill))
		}
	}

	for m.Len() > m.Cap()/2 {
		i := rng.IntN(len(keys))
		k := keys[i]
		keys[i] = keys[len(keys)-1]
		keys = keys[:len(keys)-1]

		fill := m.Len() - 1
		start := time.Now()
		_, found := m.Remove(k)
		samples[fill].remove = time.Since(start).Nanoseconds()
		if !found {
			return nil, fixmap.NewErrCorruptedTable("reachable", fmt.Sprintf("key %d lost at fill %d", k, fill))
		}
	}

	if err := m.Check(); err != nil {
		return nil, err
	}

	stats := m.Stats()
	logger.Info("fixbench: run complete",
		zap.Int("capacity", stats.Capacity),
		zap.Int("len", stats.Len),
		zap.Int("max_probe_distance", stats.MaxProbeDistance),
		zap.Float64("mean_probe_distance", stats.MeanProbeDistance),
		zap.String("hash", opts.hash.String()),
		zap.String("width", opts.width.String()))
	return samples, nil
}

func formatNs(ns int64) string {
	if ns < 0 {
		return ""
	}
	return strconv.FormatInt(ns, 10)
}

func writeCSV(w io.Writer, samples []sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"fill", "insert_ns", "get_ns", "remove_ns"}); err != nil {
		return err
	}
	for fill, s := range samples {
		row := []string{strconv.Itoa(fill), formatNs(s.insert), formatNs(s.get), formatNs(s.remove)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	samples, err := measure(opts, logger)
	if err != nil {
		logger.Error("fixbench: run failed", zap.Error(err))
		return err
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out) // #nosec G304 - output path chosen by the operator
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return writeCSV(w, samples)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fixbench: %v\n", err)
		os.Exit(1)
	}
}
