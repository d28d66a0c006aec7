package benchmarks

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/agilira/fixmap"
	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/maypok86/otter/v2"
)

// Benchmark configuration
const (
	// Power of two within the standard index width
	tableCapacity = 8192

	// Zipf exponent for skewed lookups
	zipfSkew = 1.01
)

// Fill levels to test, as a fraction of capacity
var loadLevels = []float64{0.50, 0.80, 0.95}

// =============================================================================
// ZIPF DISTRIBUTION GENERATOR
// =============================================================================

// ZipfGenerator generates keys following Zipf distribution.
// A few keys are looked up far more often than the rest.
type ZipfGenerator struct {
	zipf *rand.Zipf
	max  uint64
}

// NewZipfGenerator creates a new Zipf distribution generator
// s: exponent (must be > 1.0 for Zipf to work)
// v: second parameter for Zipf (must be >= 1.0)
// imax: maximum value (key space)
func NewZipfGenerator(s, v float64, imax uint64) *ZipfGenerator {
	if imax < 1 {
		imax = 1
	}
	if s <= 1.0 {
		s = 1.01
	}
	if v < 1.0 {
		v = 1.0
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	zipf := rand.NewZipf(r, s, v, imax)
	if zipf == nil {
		panic(fmt.Sprintf("failed to create Zipf generator: s=%f, v=%f, imax=%d", s, v, imax))
	}
	return &ZipfGenerator{
		zipf: zipf,
		max:  imax,
	}
}

// Next returns the next key in the Zipf distribution
func (z *ZipfGenerator) Next() uint64 {
	return z.zipf.Uint64()
}

// =============================================================================
// STORE WRAPPERS FOR UNIFORM INTERFACE
// =============================================================================

// StoreInterface provides a uniform interface for every key-value store
// under test. Insert reports whether the entry was accepted.
type StoreInterface interface {
	Insert(key string, value int) bool
	Get(key string) (int, bool)
	Remove(key string) bool
	Name() string
	Close()
}

// =============================================================================
// FIXMAP WRAPPER
// =============================================================================

type FixmapStore struct {
	m    *fixmap.Map[string, int]
	algo fixmap.HashAlgorithm
}

func NewFixmapStore(capacity int, algo fixmap.HashAlgorithm) *FixmapStore {
	return &FixmapStore{
		m: fixmap.MustNew[string, int](fixmap.Config{
			Capacity:      capacity,
			HashAlgorithm: algo,
		}),
		algo: algo,
	}
}

func (s *FixmapStore) Insert(key string, value int) bool {
	_, _, err := s.m.Insert(key, value)
	return err == nil
}

func (s *FixmapStore) Get(key string) (int, bool) {
	return s.m.Get(key)
}

func (s *FixmapStore) Remove(key string) bool {
	_, ok := s.m.Remove(key)
	return ok
}

func (s *FixmapStore) Name() string {
	return "Fixmap-" + s.algo.String()
}

func (s *FixmapStore) Close() {}

// =============================================================================
// BUILTIN MAP WRAPPER
// =============================================================================

// BuiltinStore bounds a builtin map to the same capacity as a fixmap.
type BuiltinStore struct {
	m        map[string]int
	capacity int
}

func NewBuiltinStore(capacity int) *BuiltinStore {
	return &BuiltinStore{m: make(map[string]int, capacity), capacity: capacity}
}

func (s *BuiltinStore) Insert(key string, value int) bool {
	if _, ok := s.m[key]; !ok && len(s.m) >= s.capacity {
		return false
	}
	s.m[key] = value
	return true
}

func (s *BuiltinStore) Get(key string) (int, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *BuiltinStore) Remove(key string) bool {
	_, ok := s.m[key]
	delete(s.m, key)
	return ok
}

func (s *BuiltinStore) Name() string {
	return "Builtin"
}

func (s *BuiltinStore) Close() {}

// =============================================================================
// OTTER WRAPPER
// =============================================================================

type OtterStore struct {
	cache *otter.Cache[string, int]
}

func NewOtterStore(capacity int) *OtterStore {
	cache := otter.Must(&otter.Options[string, int]{
		MaximumSize: capacity,
	})
	return &OtterStore{cache: cache}
}

func (s *OtterStore) Insert(key string, value int) bool {
	s.cache.Set(key, value)
	return true
}

func (s *OtterStore) Get(key string) (int, bool) {
	return s.cache.GetIfPresent(key)
}

func (s *OtterStore) Remove(key string) bool {
	_, ok := s.cache.GetIfPresent(key)
	s.cache.Invalidate(key)
	return ok
}

func (s *OtterStore) Name() string {
	return "Otter"
}

func (s *OtterStore) Close() {
	// Otter v2 Close is handled automatically
}

// =============================================================================
// RISTRETTO WRAPPER
// =============================================================================

type RistrettoStore struct {
	cache *ristretto.Cache[string, int]
}

func NewRistrettoStore(capacity int) *RistrettoStore {
	cache, err := ristretto.NewCache(&ristretto.Config[string, int]{
		NumCounters: int64(capacity * 10),
		MaxCost:     int64(capacity),
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	return &RistrettoStore{cache: cache}
}

func (s *RistrettoStore) Insert(key string, value int) bool {
	return s.cache.Set(key, value, 1)
}

func (s *RistrettoStore) Get(key string) (int, bool) {
	return s.cache.Get(key)
}

func (s *RistrettoStore) Remove(key string) bool {
	_, ok := s.cache.Get(key)
	s.cache.Del(key)
	return ok
}

func (s *RistrettoStore) Name() string {
	return "Ristretto"
}

func (s *RistrettoStore) Close() {
	s.cache.Close()
}

// =============================================================================
// BENCHMARK HELPERS
// =============================================================================

type storeFactory struct {
	name string
	make func(capacity int) StoreInterface
}

var stores = []storeFactory{
	{"Fixmap-fnv1a", func(c int) StoreInterface { return NewFixmapStore(c, fixmap.HashFNV1a) }},
	{"Fixmap-xxh3", func(c int) StoreInterface { return NewFixmapStore(c, fixmap.HashXXH3) }},
	{"Builtin", func(c int) StoreInterface { return NewBuiltinStore(c) }},
	{"Otter", func(c int) StoreInterface { return NewOtterStore(c) }},
	{"Ristretto", func(c int) StoreInterface { return NewRistrettoStore(c) }},
}

func keyOf(i int) string {
	return "sensor-" + strconv.Itoa(i)
}

// keysFor returns n distinct keys; missKeys never collide with them.
func keysFor(n int) (keys, missKeys []string) {
	keys = make([]string, n)
	missKeys = make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = keyOf(i)
		missKeys[i] = keyOf(n + i)
	}
	return keys, missKeys
}

// fill inserts keys. Below capacity a fixmap must accept every one; the
// caches may drop writes under their admission policies.
func fill(b *testing.B, s StoreInterface, keys []string) {
	b.Helper()
	for i, k := range keys {
		if !s.Insert(k, i) {
			if _, ok := s.(*FixmapStore); ok {
				b.Fatalf("%s refused %q at fill %d", s.Name(), k, i)
			}
		}
	}
	if r, ok := s.(*RistrettoStore); ok {
		r.cache.Wait()
	}
}

func forEachLoad(b *testing.B, run func(b *testing.B, f storeFactory, n int)) {
	for _, load := range loadLevels {
		n := int(load * tableCapacity)
		for _, f := range stores {
			b.Run(fmt.Sprintf("%s/load=%.0f%%", f.name, load*100), func(b *testing.B) {
				run(b, f, n)
			})
		}
	}
}

// =============================================================================
// SINGLE-THREADED BENCHMARKS
// =============================================================================

func BenchmarkGet_Hit(b *testing.B) {
	forEachLoad(b, func(b *testing.B, f storeFactory, n int) {
		s := f.make(tableCapacity)
		defer s.Close()
		keys, _ := keysFor(n)
		fill(b, s, keys)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			s.Get(keys[i%n])
		}
	})
}

func BenchmarkGet_Miss(b *testing.B) {
	forEachLoad(b, func(b *testing.B, f storeFactory, n int) {
		s := f.make(tableCapacity)
		defer s.Close()
		keys, missKeys := keysFor(n)
		fill(b, s, keys)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			s.Get(missKeys[i%n])
		}
	})
}

func BenchmarkGet_Zipf(b *testing.B) {
	forEachLoad(b, func(b *testing.B, f storeFactory, n int) {
		s := f.make(tableCapacity)
		defer s.Close()
		keys, _ := keysFor(n)
		fill(b, s, keys)
		zipf := NewZipfGenerator(zipfSkew, 1.0, uint64(n-1))

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			s.Get(keys[zipf.Next()])
		}
	})
}

func BenchmarkInsert_Update(b *testing.B) {
	forEachLoad(b, func(b *testing.B, f storeFactory, n int) {
		s := f.make(tableCapacity)
		defer s.Close()
		keys, _ := keysFor(n)
		fill(b, s, keys)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			s.Insert(keys[i%n], i)
		}
	})
}

// BenchmarkChurn removes one key and inserts another, keeping the fill level
// steady. This is where backward-shift deletion matters.
func BenchmarkChurn(b *testing.B) {
	forEachLoad(b, func(b *testing.B, f storeFactory, n int) {
		s := f.make(tableCapacity)
		defer s.Close()
		keys, missKeys := keysFor(n)
		fill(b, s, keys)

		// live[i] holds whichever of keys[i] and missKeys[i] is stored
		live := make([]string, n)
		copy(live, keys)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			j := i % n
			s.Remove(live[j])
			if live[j] == keys[j] {
				live[j] = missKeys[j]
			} else {
				live[j] = keys[j]
			}
			s.Insert(live[j], i)
		}
	})
}

// =============================================================================
// RETENTION TEST (Not a benchmark, but useful for comparison)
// =============================================================================

// TestRetention offers twice the capacity to every store. A fixmap refuses
// the overflow and keeps every accepted entry; the caches evict instead.
func TestRetention(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping retention test in short mode")
	}

	const capacity = 1024
	keys, missKeys := keysFor(capacity)
	offered := append(append([]string{}, keys...), missKeys...)

	for _, f := range stores {
		s := f.make(capacity)
		accepted := make([]string, 0, len(offered))
		for i, k := range offered {
			if s.Insert(k, i) {
				accepted = append(accepted, k)
			}
		}
		if r, ok := s.(*RistrettoStore); ok {
			r.cache.Wait()
		}

		retained := 0
		for _, k := range accepted {
			if _, ok := s.Get(k); ok {
				retained++
			}
		}
		t.Logf("%s: accepted %d/%d, retained %d/%d",
			s.Name(), len(accepted), len(offered), retained, len(accepted))

		if fs, ok := s.(*FixmapStore); ok {
			if len(accepted) != capacity || retained != capacity {
				t.Errorf("%s: expected exactly %d accepted and retained, got %d and %d",
					s.Name(), capacity, len(accepted), retained)
			}
			if err := fs.m.Check(); err != nil {
				t.Errorf("%s: %v", s.Name(), err)
			}
		}
		s.Close()
	}
}
