// collector.go: OpenTelemetry-backed MetricsCollector implementation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otelmetrics

import (
	"context"
	"errors"

	concurrent "github.com/ZelvaLea/MyConcurrencyWorld"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Collector implements concurrent.MetricsCollector using OpenTelemetry
// instruments. All instruments are thread-safe and lock-free, matching
// the containers' own concurrency guarantees: recording a metric never
// introduces contention on a container's hot path.
type Collector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	removeLatency metric.Int64Histogram
	resizeLatency metric.Int64Histogram

	hits    metric.Int64Counter
	misses  metric.Int64Counter
	resizes metric.Int64Counter
}

// Options configures a Collector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/ZelvaLea/MyConcurrencyWorld".
	MeterName string
}

// Option is a functional option for configuring a Collector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple container instances.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewCollector creates a Collector backed by provider. provider must not
// be nil.
func NewCollector(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/ZelvaLea/MyConcurrencyWorld"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &Collector{}

	var err error
	if c.getLatency, err = meter.Int64Histogram(
		"concurrent_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.setLatency, err = meter.Int64Histogram(
		"concurrent_set_latency_ns",
		metric.WithDescription("Latency of Put/Set operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.removeLatency, err = meter.Int64Histogram(
		"concurrent_remove_latency_ns",
		metric.WithDescription("Latency of Remove operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.resizeLatency, err = meter.Int64Histogram(
		"concurrent_resize_duration_ns",
		metric.WithDescription("Duration of ResizableArray resizes in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter(
		"concurrent_get_hits_total",
		metric.WithDescription("Total number of Get hits"),
	); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter(
		"concurrent_get_misses_total",
		metric.WithDescription("Total number of Get misses"),
	); err != nil {
		return nil, err
	}
	if c.resizes, err = meter.Int64Counter(
		"concurrent_resize_total",
		metric.WithDescription("Total number of ResizableArray resizes"),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordGet implements concurrent.MetricsCollector.
func (c *Collector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet implements concurrent.MetricsCollector.
func (c *Collector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordRemove implements concurrent.MetricsCollector.
func (c *Collector) RecordRemove(latencyNs int64, removed bool) {
	c.removeLatency.Record(context.Background(), latencyNs,
		metric.WithAttributes(attribute.Bool("removed", removed)))
}

// RecordResize implements concurrent.MetricsCollector.
func (c *Collector) RecordResize(durationNs int64, oldLen, newLen int) {
	ctx := context.Background()
	c.resizeLatency.Record(ctx, durationNs)
	c.resizes.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Int("old_len", oldLen),
			attribute.Int("new_len", newLen),
		))
}

var _ concurrent.MetricsCollector = (*Collector)(nil)
