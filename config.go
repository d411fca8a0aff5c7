// config.go: configuration for the concurrent containers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package concurrent

import (
	"runtime"

	timecache "github.com/agilira/go-timecache"
)

// Config holds the collaborators shared by both containers. Neither
// container accepts a capacity through Config: the enum map's capacity is
// the domain's cardinality (fixed at construction, see NewEnumMap) and the
// resizable array's initial length is passed directly to NewResizableArray.
type Config struct {
	// Logger is used for resize lifecycle diagnostics.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metrics latency measurement.
	// If nil, a default implementation is used. Default: system time.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics (latencies,
	// resize durations). If nil, NoOpMetricsCollector is used (zero
	// overhead). Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// StripeCount is the number of stripes used by the cardinality
	// counter. Validate rounds it up to a power of two. If <= 0, it defaults to
	// runtime.GOMAXPROCS(0) rounded up to the next power of two.
	StripeCount int
}

// Validate applies sensible defaults in place. It never returns an error;
// it exists, like the teacher's Config.Validate, to normalize a
// caller-supplied Config before use and to document the defaulting rules
// in one place.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	if c.StripeCount <= 0 {
		c.StripeCount = nextPowerOf2(runtime.GOMAXPROCS(0))
	} else {
		c.StripeCount = nextPowerOf2(c.StripeCount)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults applied.
func DefaultConfig() Config {
	c := Config{}
	_ = c.Validate()
	return c
}

// Option configures a Config before it is validated. Both NewEnumMap and
// NewResizableArray accept a variadic list of Options instead of a raw
// Config, so construction reads as a list of overrides against sensible
// defaults rather than a struct literal callers must fully populate.
type Option func(*Config)

// WithLogger overrides the resize-lifecycle logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithTimeProvider overrides the time source used for metrics latency
// measurement.
func WithTimeProvider(tp TimeProvider) Option {
	return func(c *Config) { c.TimeProvider = tp }
}

// WithMetricsCollector overrides the metrics sink.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(c *Config) { c.MetricsCollector = m }
}

// WithStripeCount overrides the cardinality counter's stripe count. It is
// rounded up to a power of two by Validate.
func WithStripeCount(n int) Option {
	return func(c *Config) { c.StripeCount = n }
}

// resolveConfig applies opts over a zero-value Config and validates it.
func resolveConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	_ = c.Validate()
	return c
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access than time.Now() with zero
// allocations, which matters here because metrics are recorded inline on
// operations that are themselves designed to be allocation-free.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
