// config_test.go: tests for Options validation and defaults
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "testing"

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions[string](StringHasher())

	if opts.Capacity != DefaultCapacity {
		t.Fatalf("Capacity = %d; want %d", opts.Capacity, DefaultCapacity)
	}
	if opts.BucketCapacity != DefaultBucketCapacity {
		t.Fatalf("BucketCapacity = %d; want %d", opts.BucketCapacity, DefaultBucketCapacity)
	}
	if !opts.CheckUniqueOnInsert {
		t.Fatal("CheckUniqueOnInsert should default to true")
	}
	if opts.Hasher == nil {
		t.Fatal("Hasher should not be nil")
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	opts := Options[string]{Hasher: StringHasher()}
	if err := opts.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if opts.Capacity != DefaultCapacity {
		t.Fatalf("Capacity = %d; want %d", opts.Capacity, DefaultCapacity)
	}
	if opts.BucketCapacity != DefaultBucketCapacity {
		t.Fatalf("BucketCapacity = %d; want %d", opts.BucketCapacity, DefaultBucketCapacity)
	}
	if _, ok := opts.Logger.(NoOpLogger); !ok {
		t.Fatal("Logger should default to NoOpLogger")
	}
	if _, ok := opts.MetricsCollector.(NoOpMetricsCollector); !ok {
		t.Fatal("MetricsCollector should default to NoOpMetricsCollector")
	}
	if opts.TimeProvider == nil {
		t.Fatal("TimeProvider should default to a non-nil provider")
	}
}

func TestValidateRejectsNilHasher(t *testing.T) {
	opts := Options[string]{}
	if err := opts.validate(); err == nil {
		t.Fatal("validate should reject a nil Hasher")
	}
}

func TestValidateRejectsBadBucketCapacity(t *testing.T) {
	opts := Options[string]{Hasher: StringHasher(), BucketCapacity: 5}
	if err := opts.validate(); err == nil {
		t.Fatal("validate should reject a BucketCapacity that is not 4 or 8")
	}
}

func TestValidateAcceptsBucketCapacityEight(t *testing.T) {
	opts := Options[string]{Hasher: StringHasher(), BucketCapacity: 8}
	if err := opts.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsOversizedCapacity(t *testing.T) {
	opts := Options[string]{Hasher: StringHasher(), Capacity: maxCapacity + 1}
	if err := opts.validate(); err == nil {
		t.Fatal("validate should reject Capacity above maxCapacity")
	}
}
