// Package otelmetrics provides an OpenTelemetry-backed implementation of
// concurrent.MetricsCollector.
//
// # Overview
//
// The core module has zero OpenTelemetry dependencies: it depends only on
// the MetricsCollector interface and defaults to a no-op implementation.
// This package is a separate module so that applications which don't need
// metrics don't pull in the OTEL SDK.
//
// # Quick Start
//
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := otelmetrics.NewCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := concurrent.NewEnumMap[Weekday, string](domain,
//	    concurrent.WithMetricsCollector(collector))
//
// # Metrics Exposed
//
//   - concurrent_get_latency_ns / concurrent_set_latency_ns /
//     concurrent_remove_latency_ns: histograms of per-operation latency.
//   - concurrent_get_hits_total / concurrent_get_misses_total: counters.
//   - concurrent_resize_duration_ns: histogram of resize durations.
//   - concurrent_resize_total: counter of resizes, labeled with old/new length.
package otelmetrics
