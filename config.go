// config.go: construction options for cellmap maps
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "github.com/agilira/go-timecache"

// Options holds construction-time parameters for a Map[K, V]. Unlike the
// teacher's Config (which can be re-validated and partially hot-reloaded),
// most Options fields are fixed for the lifetime of the map: spec.md's
// Non-goals explicitly exclude dynamic resizing, so Capacity,
// BucketCapacity and Variant cannot change after NewMap returns.
type Options[K comparable] struct {
	// Capacity is the effective number of entries the map accepts. Must be
	// > 0 and <= math.MaxInt16 (spec.md §6). Default: DefaultCapacity.
	Capacity int

	// BucketCapacity is the number of cells packed per bucket: 4 or 8.
	// Default: DefaultBucketCapacity (4).
	BucketCapacity int

	// Hasher computes the 64-bit hash used for probing. Required — there
	// is no generic default because Go generics cannot derive a hash
	// function for an arbitrary comparable K (spec.md §1 treats hashing
	// as an external parameter supplied by the caller).
	Hasher Hasher[K]

	// Variant selects the key-store/removal strategy. Default:
	// VariantSequential.
	Variant Variant

	// CheckUniqueOnInsert, when true and Variant is VariantHashedCleanup,
	// makes the key store perform an upfront Find before probing for an
	// empty slot, short-circuiting duplicate inserts before they claim a
	// slot (mirrors the `CHECK_UNIQUE` const generic of
	// original_source/src/store.rs). DefaultOptions sets it to true; an
	// Options value that leaves it unset has it false. Hot-reloadable via
	// hotconfig.go.
	CheckUniqueOnInsert bool

	// Logger is used for rare diagnostic events (a Warn when a speculative
	// key rollback fails). Never called on a successful-path hot loop.
	// Default: NoOpLogger.
	Logger Logger

	// MetricsCollector receives per-operation latency/outcome samples.
	// Default: NoOpMetricsCollector (zero overhead).
	MetricsCollector MetricsCollector

	// TimeProvider supplies the clock used to timestamp metrics samples.
	// Default: a go-timecache-backed provider.
	TimeProvider TimeProvider
}

// validate normalizes Options, applying defaults, and returns an error for
// values that cannot be made sensible automatically (spec.md §6's
// precondition assertions that are resolvable at construction time, not
// reported as panics).
func (o *Options[K]) validate() error {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Capacity > maxCapacity {
		return NewErrInvalidOption("Capacity", o.Capacity)
	}

	if o.BucketCapacity == 0 {
		o.BucketCapacity = DefaultBucketCapacity
	}
	if o.BucketCapacity != 4 && o.BucketCapacity != 8 {
		return NewErrInvalidOption("BucketCapacity", o.BucketCapacity)
	}

	if o.Hasher == nil {
		return NewErrInvalidOption("Hasher", nil)
	}

	if o.Logger == nil {
		o.Logger = NoOpLogger{}
	}
	if o.MetricsCollector == nil {
		o.MetricsCollector = NoOpMetricsCollector{}
	}
	if o.TimeProvider == nil {
		o.TimeProvider = &systemTimeProvider{}
	}

	// CheckUniqueOnInsert is left as given: a bool has no "unset"
	// sentinel, so validate cannot tell an omitted field from an explicit
	// false. DefaultOptions is what sets it to true. This mirrors the
	// teacher's Validate(), which only ever raises defaults, never lowers
	// an explicit field.
	return nil
}

// DefaultOptions returns Options with sensible defaults and the supplied
// hasher, the way the teacher's DefaultConfig() returns a ready-to-use
// Config. CheckUniqueOnInsert defaults to true.
func DefaultOptions[K comparable](hasher Hasher[K]) Options[K] {
	return Options[K]{
		Capacity:            DefaultCapacity,
		BucketCapacity:      DefaultBucketCapacity,
		Hasher:              hasher,
		Variant:             VariantSequential,
		CheckUniqueOnInsert: true,
		Logger:              NoOpLogger{},
		MetricsCollector:    NoOpMetricsCollector{},
		TimeProvider:        &systemTimeProvider{},
	}
}

// systemTimeProvider is the default time provider, backed by go-timecache
// for a cheap cached clock read (metrics timestamps do not need
// nanosecond-fresh precision).
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
