// keystore.go: the two key-storage strategies behind Options.Variant
//
// Grounded on original_source/src/store.rs (HashStore) and array.rs
// (the plain arena, used without an index by the removal-less variant).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import (
	"runtime"
	"sync/atomic"
)

// keyStore is the storage side of a Map: it owns the actual K values a
// cell's descriptor points at. Map drives hashing and probing of the
// packed-cell table itself; keyStore only needs to publish, read back and
// retire individual keys by offset.
type keyStore[K comparable] interface {
	// insert reserves a slot for key and returns its offset. When the
	// implementation can positively identify key as already present
	// (only hashedStore can), it reports duplicate=true instead of
	// probing for a free slot; ok=false with duplicate=false means the
	// store has no room left. Callers must not conflate the two.
	insert(key K, checkUnique bool) (offset int, duplicate bool, ok bool)

	// get returns the key stored at offset, or ok=false if offset does
	// not currently hold a live key.
	get(offset int) (key K, ok bool)

	// release retires the key at offset. For the sequential store it is
	// the arena's best-effort "pop the tail", used only to roll back a
	// speculative insert that lost its race for a table cell; Map.Remove
	// does not call it for this store, since sequential-store entries
	// live forever (spec.md's Lifecycle). For the hashed store it is the
	// Deleted transition, used both for that rollback and for freeing
	// storage on a user-driven Remove.
	release(offset int) bool

	effectiveCapacity() int
}

// sequentialStore never reclaims storage (VariantSequential). Duplicate
// detection for this variant happens entirely through table probing in
// Map, since the arena carries no value index.
type sequentialStore[K comparable] struct {
	arena *boundedArena[K]
}

// newSequentialStore takes allocatedSize (the table's full allocation),
// the same parameter shape newHashedStore takes, and reduces it by
// minKeyDescriptor itself so an arena offset can never reach a value
// that would overflow the uint16 descriptor space when minKeyDescriptor
// is added back (see effectiveCapacity and map.go's descriptor packing).
func newSequentialStore[K comparable](allocatedSize int) *sequentialStore[K] {
	return &sequentialStore[K]{arena: newBoundedArena[K](allocatedSize - int(minKeyDescriptor))}
}

func (s *sequentialStore[K]) insert(key K, _ bool) (offset int, duplicate bool, ok bool) {
	offset, ok = s.arena.push(key)
	return offset, false, ok
}

func (s *sequentialStore[K]) get(offset int) (K, bool) {
	return s.arena.get(offset)
}

func (s *sequentialStore[K]) release(offset int) bool {
	return s.arena.pop(offset)
}

func (s *sequentialStore[K]) effectiveCapacity() int {
	return s.arena.cap()
}

// hashedSlotState is the per-slot state machine of hashedStore, matching
// store.rs's HashState enum (Empty, Deleted, Inserting(hash), Occupied(hash)).
type hashedSlotState uint8

const (
	hashStateEmpty hashedSlotState = iota
	hashStateDeleted
	hashStateInserting
	hashStateOccupied
)

// packHashState packs a state tag and a 32-bit hash into one word, the way
// a packedCell packs a descriptor and a value — same trick, different layer.
func packHashState(state hashedSlotState, hash uint32) uint64 {
	return uint64(hash)<<2 | uint64(state)
}

func unpackHashState(packed uint64) (state hashedSlotState, hash uint32) {
	return hashedSlotState(packed & 0x3), uint32(packed >> 2)
}

// hashedStore supports real removal: a Deleted slot is immediately
// available for reuse by a later insert, so a Remove can be followed by
// an unbounded number of further inserts without exhausting storage
// (VariantHashedCleanup). Slots are addressed by the same offset space
// the packed cells use, with their own open-addressing probe over a flat
// []atomic.Uint64 state array — store.rs organizes this as buckets for
// cache locality, which a contiguous Go slice already gives for free, so
// no separate bucket type is introduced here.
type hashedStore[K comparable] struct {
	states      []atomic.Uint64
	values      []K
	hasher      Hasher[K]
	count       atomic.Int64
	capacity    int
	checkUnique atomic.Bool
}

func newHashedStore[K comparable](allocatedSize int, hasher Hasher[K], checkUnique bool) *hashedStore[K] {
	s := &hashedStore[K]{
		states:   make([]atomic.Uint64, allocatedSize),
		values:   make([]K, allocatedSize),
		hasher:   hasher,
		capacity: allocatedSize - int(minKeyDescriptor),
	}
	s.checkUnique.Store(checkUnique)
	return s
}

func (s *hashedStore[K]) effectiveCapacity() int {
	return s.capacity
}

// setCheckUniqueOnInsert updates the duplicate-avoidance toggle at
// runtime (wired from hotconfig.go).
func (s *hashedStore[K]) setCheckUniqueOnInsert(on bool) {
	s.checkUnique.Store(on)
}

func (s *hashedStore[K]) insert(key K, checkUnique bool) (offset int, duplicate bool, ok bool) {
	if checkUnique && s.checkUnique.Load() {
		if _, found := s.find(key); found {
			return 0, true, false
		}
	}
	if int(s.count.Load()) >= s.capacity {
		return 0, false, false
	}

	hash := uint32(s.hasher(key))
	index := int(uint64(hash) % uint64(s.capacity))

	for {
		for {
			cur := s.states[index].Load()
			state, curHash := unpackHashState(cur)

			if state == hashStateEmpty || state == hashStateDeleted {
				if s.states[index].CompareAndSwap(cur, packHashState(hashStateInserting, hash)) {
					s.values[index] = key
					s.states[index].Store(packHashState(hashStateOccupied, hash))
					s.count.Add(1)
					return index, false, true
				}
				continue // lost the CAS race on this slot, re-read it
			}

			if state == hashStateInserting && curHash == hash {
				runtime.Gosched()
				continue // a concurrent writer may be inserting this exact value
			}

			if state == hashStateOccupied && curHash == hash && s.values[index] == key {
				return 0, true, false // duplicate
			}

			break // collision: advance to the next slot
		}

		index++
		if index == s.capacity {
			index = 0
		}
	}
}

func (s *hashedStore[K]) find(key K) (int, bool) {
	hash := uint32(s.hasher(key))
	index := int(uint64(hash) % uint64(s.capacity))

	for probed := 0; probed < s.capacity; probed++ {
		for {
			cur := s.states[index].Load()
			state, curHash := unpackHashState(cur)

			switch state {
			case hashStateEmpty:
				return 0, false
			case hashStateOccupied:
				if curHash == hash && s.values[index] == key {
					return index, true
				}
			case hashStateInserting:
				if curHash == hash {
					runtime.Gosched()
					continue
				}
			}
			break
		}

		index++
		if index == s.capacity {
			index = 0
		}
	}
	return 0, false
}

func (s *hashedStore[K]) get(offset int) (K, bool) {
	for {
		state, _ := unpackHashState(s.states[offset].Load())
		switch state {
		case hashStateOccupied:
			return s.values[offset], true
		case hashStateInserting:
			runtime.Gosched()
			continue
		default:
			var zero K
			return zero, false
		}
	}
}

func (s *hashedStore[K]) release(offset int) bool {
	for {
		cur := s.states[offset].Load()
		state, hash := unpackHashState(cur)

		switch state {
		case hashStateOccupied:
			if s.states[offset].CompareAndSwap(cur, packHashState(hashStateDeleted, hash)) {
				s.count.Add(-1)
				return true
			}
		case hashStateInserting:
			runtime.Gosched()
			continue
		default:
			return false
		}
	}
}
