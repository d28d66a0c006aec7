// Package otel provides OpenTelemetry integration for fixmap metrics.
//
// # Overview
//
// This package implements the fixmap.MetricsCollector interface using
// OpenTelemetry. Latencies are recorded into histograms, so any OTEL backend
// (Prometheus, Grafana, DataDog) can derive p50, p95 and p99 for Insert, Get
// and Remove.
//
// The package is a separate module to keep the fixmap core lightweight.
// Applications that don't need metrics don't pay for the OTEL dependencies.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/fixmap"
//	    fixmapotel "github.com/agilira/fixmap/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := fixmapotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := fixmap.New[string, Reading](fixmap.Config{
//	    Capacity:         4096,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - fixmap_insert_latency_ns: histogram of accepted Insert latencies
//   - fixmap_get_latency_ns: histogram of Get latencies
//   - fixmap_remove_latency_ns: histogram of Remove latencies
//   - fixmap_inserts_total: accepted inserts, new keys and updates
//   - fixmap_updates_total: inserts that replaced an existing value
//   - fixmap_get_hits_total / fixmap_get_misses_total: lookup outcomes
//   - fixmap_remove_misses_total: removals of absent keys
//   - fixmap_rejected_total: inserts refused because the map was full
//
// A rising fixmap_rejected_total means a map is sized too small for its
// workload. Capacity is fixed at construction, so the fix is a larger
// fixmap.Config.Capacity (see fixmap.CapacityFor).
//
// # PromQL
//
// Lookup hit ratio:
//
//	rate(fixmap_get_hits_total[5m])
//	  / (rate(fixmap_get_hits_total[5m]) + rate(fixmap_get_misses_total[5m]))
//
// p99 lookup latency:
//
//	histogram_quantile(0.99, rate(fixmap_get_latency_ns_bucket[5m]))
//
// # Concurrency
//
// A Map itself is not safe for concurrent use, but the collector is: one
// collector can be shared by maps owned by different goroutines.
//
// # License
//
// Same as fixmap core (see LICENSE in main repository).
package otel
