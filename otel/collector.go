// collector.go: OpenTelemetry implementation of fixmap.MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"

	"github.com/agilira/fixmap"
	"go.opentelemetry.io/otel/metric"
)

// DefaultMeterName is the meter used when no WithMeterName option is given.
const DefaultMeterName = "github.com/agilira/fixmap"

// OTelMetricsCollector implements fixmap.MetricsCollector using OpenTelemetry.
//
// Thread-safety: the instruments are safe for concurrent use, so one collector
// can serve many maps owned by different goroutines.
type OTelMetricsCollector struct {
	insertLatency metric.Int64Histogram
	getLatency    metric.Int64Histogram
	removeLatency metric.Int64Histogram
	inserts       metric.Int64Counter // accepted inserts, new keys and updates
	updates       metric.Int64Counter // inserts that replaced a value
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	removeMisses  metric.Int64Counter
	rejected      metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/fixmap"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, for example to tell apart the
// metrics of several map families in one process.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a collector whose instruments come from a
// meter of provider. A nil provider is a configuration error.
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, fixmap.NewErrInvalidConfig("meter_provider", nil)
	}

	options := Options{
		MeterName: DefaultMeterName,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	histograms := []struct {
		dst         *metric.Int64Histogram
		name, about string
	}{
		{&collector.insertLatency, "fixmap_insert_latency_ns", "Latency of accepted Insert operations in nanoseconds"},
		{&collector.getLatency, "fixmap_get_latency_ns", "Latency of Get operations in nanoseconds"},
		{&collector.removeLatency, "fixmap_remove_latency_ns", "Latency of Remove operations in nanoseconds"},
	}
	for _, h := range histograms {
		*h.dst, err = meter.Int64Histogram(h.name,
			metric.WithDescription(h.about),
			metric.WithUnit("ns"),
		)
		if err != nil {
			return nil, err
		}
	}

	counters := []struct {
		dst         *metric.Int64Counter
		name, about string
	}{
		{&collector.inserts, "fixmap_inserts_total", "Total number of accepted inserts"},
		{&collector.updates, "fixmap_updates_total", "Total number of inserts that replaced a value"},
		{&collector.hits, "fixmap_get_hits_total", "Total number of lookup hits"},
		{&collector.misses, "fixmap_get_misses_total", "Total number of lookup misses"},
		{&collector.removeMisses, "fixmap_remove_misses_total", "Total number of removals of absent keys"},
		{&collector.rejected, "fixmap_rejected_total", "Total number of inserts refused by a full map"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.about))
		if err != nil {
			return nil, err
		}
	}

	return collector, nil
}

// RecordInsert records an accepted Insert.
func (c *OTelMetricsCollector) RecordInsert(latencyNs int64, replaced bool) {
	ctx := context.Background()
	c.insertLatency.Record(ctx, latencyNs)
	c.inserts.Add(ctx, 1)
	if replaced {
		c.updates.Add(ctx, 1)
	}
}

// RecordGet records a lookup and its outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordRemove records a Remove and whether the key was present.
func (c *OTelMetricsCollector) RecordRemove(latencyNs int64, found bool) {
	ctx := context.Background()
	c.removeLatency.Record(ctx, latencyNs)
	if !found {
		c.removeMisses.Add(ctx, 1)
	}
}

// RecordRejected records an Insert refused because the map was full.
func (c *OTelMetricsCollector) RecordRejected() {
	c.rejected.Add(context.Background(), 1)
}

// Compile-time check that OTelMetricsCollector implements fixmap.MetricsCollector
var _ fixmap.MetricsCollector = (*OTelMetricsCollector)(nil)
