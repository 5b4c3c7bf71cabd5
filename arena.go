// arena.go: bounded append arena backing the sequential key store
//
// Grounded on original_source/src/array.rs's ConcurrentArena/ConcurrentArray
// pair — collapsed here into one generic type since Go slices already carry
// element size and alignment, unlike the raw byte buffer array.rs manages.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "sync/atomic"

// boundedArena is a fixed-capacity, lock-free, append-only arena of T with
// a narrow "pop the last slot" rollback primitive. The synchronization it
// needs is weaker than it looks: the real happens-before edge for a
// published offset is the downstream packed-cell CAS in cell.go, not the
// arena's own cursor (spec.md §9, "release on the key-store publish
// happens-before release on the cell CAS") — so a plain CAS-guarded cursor
// is sufficient here.
type boundedArena[T any] struct {
	slots    []T
	next     atomic.Uint64
	capacity uint64
}

func newBoundedArena[T any](capacity int) *boundedArena[T] {
	return &boundedArena[T]{
		slots:    make([]T, capacity),
		capacity: uint64(capacity),
	}
}

// push reserves the next free slot, writes item into it and returns its
// index. ok is false only when the arena has no free slots left.
func (a *boundedArena[T]) push(item T) (index int, ok bool) {
	for {
		next := a.next.Load()
		if next >= a.capacity {
			return 0, false
		}
		if a.next.CompareAndSwap(next, next+1) {
			a.slots[next] = item
			return int(next), true
		}
	}
}

// pop undoes a speculative push. It succeeds only when index is exactly
// the most recently pushed slot and nothing has pushed since — a single
// CAS from index+1 back to index. Used to roll back a key-store push
// after losing the race for a table cell (spec.md §9, "Speculative key
// publication with rollback"). A false return leaks the slot; the arena
// never shrinks below a still-referenced offset, so this is always safe,
// only wasteful.
func (a *boundedArena[T]) pop(index int) bool {
	expected := uint64(index) + 1
	return a.next.CompareAndSwap(expected, uint64(index))
}

// get returns the value at index, or ok=false if index is at or past the
// write cursor.
func (a *boundedArena[T]) get(index int) (value T, ok bool) {
	if uint64(index) >= a.next.Load() {
		var zero T
		return zero, false
	}
	return a.slots[index], true
}

func (a *boundedArena[T]) len() int {
	return int(a.next.Load())
}

func (a *boundedArena[T]) cap() int {
	return int(a.capacity)
}
