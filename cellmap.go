// cellmap.go: package-level constants and defaults for cellmap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "math"

const (
	// Version of the cellmap library.
	Version = "v0.1.0-dev"

	// DefaultCapacity is the effective capacity used by DefaultOptions.
	DefaultCapacity = 2048

	// DefaultBucketCapacity is the number of cells packed per bucket when
	// Options.BucketCapacity is left unset.
	DefaultBucketCapacity = 4

	// LoadFactor is the ratio of effective capacity to allocated capacity.
	// The allocated table is always larger than the requested capacity so
	// that at least one cell stays empty, which is what guarantees
	// termination of the unconditional probe loops.
	LoadFactor = 0.6

	// emptyDescriptor marks a cell that has never been written.
	emptyDescriptor uint16 = 0
	// deletedDescriptor marks a tombstone: previously occupied, now removed.
	deletedDescriptor uint16 = 1
	// minKeyDescriptor is the first descriptor value that encodes a key
	// store offset. offset = descriptor - minKeyDescriptor.
	minKeyDescriptor uint16 = 2

	// maxCapacity is the hard upper bound on requested capacity: the
	// packed descriptor is a 16-bit unsigned integer, and the highest
	// representable offset must still leave room for the two reserved
	// sentinel values.
	maxCapacity = math.MaxInt16
)

// Variant selects which key-store/removal strategy a Map uses.
type Variant int

const (
	// VariantSequential stores keys in a bounded append arena addressed by
	// push index. Insert/Lookup/Update/Remove are all lock-free. Remove
	// only tombstones the cell; the key storage itself is never reclaimed
	// (spec.md §3 "Lifecycle": sequential key-store entries live forever).
	VariantSequential Variant = iota

	// VariantHashedCleanup stores keys in a second open-addressed table
	// with an {Empty, Inserting, Occupied, Deleted} state per slot, so
	// Remove can free the key storage for reuse. Key-store operations may
	// spin while another goroutine is publishing a key into a slot, so
	// every operation on this variant is obstruction-free rather than
	// strictly lock-free, per spec.md §5.
	VariantHashedCleanup
)
