// map.go: Map, the public packed-cell concurrent hash map
//
// Grounded on original_source/src/lib.rs's Map::insert/_fetch_update/remove,
// restructured around the teacher's layered-API convention (cache.go's
// low-level Cache plus cache_generic.go's GenericCache wrapper).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Map is a lock-free (VariantSequential) or obstruction-free
// (VariantHashedCleanup) concurrent hash map whose cells pack a key
// descriptor and a V value into one 32-bit word, giving whole-cell
// read/write atomicity with no locks and no per-cell allocation.
//
// A Map must be constructed with NewMap, NewStringMap or NewUint64Map; its
// zero value is not usable.
type Map[K comparable, V Value] struct {
	opts      Options[K]
	table     *table[V]
	keys      keyStore[K]
	count     atomic.Int64
	effective int // effective capacity, i.e. Options.Capacity
	watcher   hotWatcher

	inserts, insertFails atomic.Uint64
	gets, hits           atomic.Uint64
	updates, updateFails atomic.Uint64
	removes, removeFails atomic.Uint64
}

// hotWatcher is the subset of *argus.Watcher's lifecycle Map needs; see
// hotconfig.go. Kept as an interface so map.go itself does not refer to
// argus types.
type hotWatcher interface {
	Stop() error
}

// NewMap constructs a Map with the given Options. It returns an error for
// configuration problems that can be reported at construction time
// (invalid BucketCapacity, a nil Hasher); it panics for violations spec.md
// §6 frames as hard preconditions — specifically, a Capacity that does not
// fit an int16 offset space, mirroring original_source's `assert!` at
// construction rather than a recoverable Result.
func NewMap[K comparable, V Value](opts Options[K]) (*Map[K, V], error) {
	assertValidCapacity(opts.Capacity)

	if err := opts.validate(); err != nil {
		return nil, err
	}

	allocatedSize := nextPowerOfTwo(int(math.Ceil(float64(opts.Capacity) / LoadFactor)))

	var keys keyStore[K]
	switch opts.Variant {
	case VariantHashedCleanup:
		keys = newHashedStore[K](allocatedSize, opts.Hasher, opts.CheckUniqueOnInsert)
	default:
		keys = newSequentialStore[K](allocatedSize)
	}

	m := &Map[K, V]{
		opts:      opts,
		table:     newTable[V](allocatedSize, opts.BucketCapacity),
		keys:      keys,
		effective: opts.Capacity,
	}
	return m, nil
}

// assertValidCapacity panics if capacity is negative or above maxCapacity —
// spec.md §6's "capacity fits in the offset width" precondition, which the
// original enforces with an assert! at construction. Zero passes and is
// later replaced by DefaultCapacity in validate.
func assertValidCapacity(capacity int) {
	if capacity < 0 || capacity > maxCapacity {
		panic(fmt.Sprintf("cellmap: capacity must be in (0, %d], got %d", maxCapacity, capacity))
	}
}

// NewStringMap constructs a Map[string, V] using StringHasher and
// VariantHashedCleanup, the common case for a map that needs real removal.
func NewStringMap[V Value](capacity int) (*Map[string, V], error) {
	opts := DefaultOptions[string](StringHasher())
	opts.Capacity = capacity
	opts.Variant = VariantHashedCleanup
	return NewMap[string, V](opts)
}

// NewUint64Map constructs a Map[uint64, V] using Uint64Hasher and
// VariantSequential, the common case for an insert-mostly integer-keyed
// map that never needs to reclaim key storage.
func NewUint64Map[V Value](capacity int) (*Map[uint64, V], error) {
	opts := DefaultOptions[uint64](Uint64Hasher())
	opts.Capacity = capacity
	return NewMap[uint64, V](opts)
}

func (m *Map[K, V]) now() int64 {
	return m.opts.TimeProvider.Now()
}

// Insert adds key -> value if key is not already present. It returns
// false if the map is at effective capacity or key already occupies a
// cell (spec.md §4.3 Insert). Use TryInsert to distinguish those two
// failure reasons.
func (m *Map[K, V]) Insert(key K, value V) bool {
	err := m.insertRecorded(key, value)
	return err == nil
}

// TryInsert is Insert, but reports the specific outcome: nil on success,
// an error satisfying IsFull if the map is at effective capacity, one
// satisfying IsDuplicate if key already occupies a cell, or — rarely —
// one satisfying IsInternal if a speculative key publication lost its
// race and could not be rolled back (spec.md §9: the slot leaks but the
// table stays consistent; this surfaces that contained anomaly instead
// of only logging it). The capacity check comes first, so at effective
// capacity the result is IsFull even for a key that is already present.
func (m *Map[K, V]) TryInsert(key K, value V) error {
	return m.insertRecorded(key, value)
}

func (m *Map[K, V]) insertRecorded(key K, value V) error {
	start := m.now()
	err := m.insert(key, value)
	m.opts.MetricsCollector.RecordInsert(m.now()-start, err == nil)
	if err == nil {
		m.inserts.Add(1)
	} else {
		m.insertFails.Add(1)
	}
	return err
}

func (m *Map[K, V]) insert(key K, value V) error {
	if int(m.count.Load()) >= m.effective {
		return NewErrFull(m.effective, int(m.count.Load()))
	}

	offset, duplicate, ok := m.keys.insert(key, m.opts.CheckUniqueOnInsert)
	if duplicate {
		return NewErrDuplicate()
	}
	if !ok {
		return NewErrFull(m.effective, int(m.count.Load()))
	}

	hash := m.opts.Hasher(key)
	index := hash & m.table.sizeMask
	descriptor := uint16(offset) + minKeyDescriptor

	for probes := 1; ; probes++ {
		observed, claimed := m.table.tryClaim(index, descriptor, value)
		if claimed {
			m.count.Add(1)
			m.opts.MetricsCollector.RecordProbeLength(probes)
			return nil
		}
		if observed < minKeyDescriptor {
			continue // the race winner was already removed; retry this cell
		}

		// observed is an occupied descriptor: determine whether it is
		// this very key (duplicate) or an unrelated collision.
		existingOffset := int(observed - minKeyDescriptor)
		if existingKey, found := m.keys.get(existingOffset); found && existingKey == key {
			if !m.keys.release(offset) {
				m.opts.Logger.Warn("cellmap: speculative key rollback failed, slot leaked",
					"offset", offset)
				return NewErrInternal("insert-rollback", nil)
			}
			return NewErrDuplicate()
		}

		index = (index + 1) & m.table.sizeMask
	}
}

// Get returns the value for key and whether it was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	start := m.now()
	value, found := m.get(key)
	m.opts.MetricsCollector.RecordGet(m.now()-start, found)
	m.gets.Add(1)
	if found {
		m.hits.Add(1)
	}
	return value, found
}

func (m *Map[K, V]) get(key K) (V, bool) {
	hash := m.opts.Hasher(key)
	index := hash & m.table.sizeMask

	for probed := 0; probed <= int(m.table.sizeMask); probed++ {
		descriptor, value := m.table.load(index)

		switch descriptor {
		case emptyDescriptor:
			m.opts.MetricsCollector.RecordProbeLength(probed + 1)
			var zero V
			return zero, false
		case deletedDescriptor:
			// tombstone: keep probing
		default:
			offset := int(descriptor - minKeyDescriptor)
			if existingKey, found := m.keys.get(offset); found && existingKey == key {
				m.opts.MetricsCollector.RecordProbeLength(probed + 1)
				return value, true
			}
		}

		index = (index + 1) & m.table.sizeMask
	}

	var zero V
	return zero, false
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, found := m.get(key)
	return found
}

// Update unconditionally replaces the value for an existing key. It
// returns the previous value and whether key was found.
func (m *Map[K, V]) Update(key K, value V) (V, bool) {
	previous, err := m.FetchUpdate(key, func(V) (V, bool) { return value, true })
	return previous, err == nil
}

// FetchUpdate atomically transforms the value for key using f, which
// receives the current value and returns the proposed new value plus
// whether to proceed. f may be invoked more than once under contention
// and must be a pure function of its argument. FetchUpdate returns
// ErrCodeNotFound if key is absent, or ErrCodeStaleValue if f declined
// (spec.md §4.3 fetch_update / Update).
func (m *Map[K, V]) FetchUpdate(key K, f func(current V) (next V, ok bool)) (V, error) {
	start := m.now()
	previous, err := m.fetchUpdate(key, f)
	m.opts.MetricsCollector.RecordUpdate(m.now()-start, err == nil)
	if err == nil {
		m.updates.Add(1)
	} else {
		m.updateFails.Add(1)
	}
	return previous, err
}

func (m *Map[K, V]) fetchUpdate(key K, f func(V) (V, bool)) (V, error) {
	hash := m.opts.Hasher(key)
	index := hash & m.table.sizeMask
	var zero V

	for probed := 0; probed <= int(m.table.sizeMask); probed++ {
		descriptor, _ := m.table.load(index)

		switch descriptor {
		case emptyDescriptor:
			return zero, NewErrNotFound()
		case deletedDescriptor:
			// tombstone: keep probing
		default:
			offset := int(descriptor - minKeyDescriptor)
			existingKey, found := m.keys.get(offset)
			if found && existingKey == key {
				previous, outcome := m.table.updateCell(index, descriptor, f)
				switch outcome {
				case outcomeApplied:
					return previous, nil
				case outcomeRejected:
					return previous, NewErrStaleValue(previous)
				default: // outcomeDescriptorChanged
					return zero, NewErrNotFound()
				}
			}
		}

		index = (index + 1) & m.table.sizeMask
	}

	return zero, NewErrNotFound()
}

// Remove deletes key if present and reports whether it was removed. For
// VariantHashedCleanup the key-store slot is also freed for reuse; for
// VariantSequential the table cell is tombstoned but the key-store entry
// is retained (spec.md §3 Lifecycle).
func (m *Map[K, V]) Remove(key K) bool {
	start := m.now()
	ok := m.remove(key)
	m.opts.MetricsCollector.RecordRemove(m.now()-start, ok)
	if ok {
		m.removes.Add(1)
	} else {
		m.removeFails.Add(1)
	}
	return ok
}

func (m *Map[K, V]) remove(key K) bool {
	hash := m.opts.Hasher(key)
	index := hash & m.table.sizeMask

	for probed := 0; probed <= int(m.table.sizeMask); probed++ {
		descriptor, _ := m.table.load(index)

		switch descriptor {
		case emptyDescriptor:
			return false
		case deletedDescriptor:
			// tombstone: keep probing
		default:
			offset := int(descriptor - minKeyDescriptor)
			existingKey, found := m.keys.get(offset)
			if found && existingKey == key {
				if _, ok := m.table.removeCell(index, descriptor); ok {
					m.count.Add(-1)
					if m.opts.Variant == VariantHashedCleanup {
						m.keys.release(offset)
					}
					return true
				}
				// Lost a race for this exact cell: another remover or
				// updater already won; from this caller's perspective
				// the key is no longer there to remove.
				return false
			}
		}

		index = (index + 1) & m.table.sizeMask
	}

	return false
}

// Len returns a best-effort snapshot of the number of entries currently
// stored (spec.md §5: may lag concurrent Insert/Remove calls).
func (m *Map[K, V]) Len() int {
	return int(m.count.Load())
}

// Capacity returns the effective capacity configured at construction.
func (m *Map[K, V]) Capacity() int {
	return m.effective
}

// Stats returns a snapshot of operation counters.
func (m *Map[K, V]) Stats() MapStats {
	return MapStats{
		Inserts:     m.inserts.Load(),
		InsertFails: m.insertFails.Load(),
		Gets:        m.gets.Load(),
		Hits:        m.hits.Load(),
		Updates:     m.updates.Load(),
		UpdateFails: m.updateFails.Load(),
		Removes:     m.removes.Load(),
		RemoveFails: m.removeFails.Load(),
		Size:        m.Len(),
		Capacity:    m.effective,
	}
}

// Close releases resources held by the map's ambient stack (currently
// only a running hot-reload watcher, if one was attached via
// WatchConfigFile). It is safe to call Close on a Map with no watcher
// attached.
func (m *Map[K, V]) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Stop()
}
