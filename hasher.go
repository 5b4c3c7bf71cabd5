// hasher.go: default Hasher implementations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "unsafe"

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// StringHasher returns a Hasher[string] using FNV-1a, zero-allocation via
// unsafe string-to-bytes reinterpretation (same technique as the teacher's
// stringHash in sketch.go).
func StringHasher() Hasher[string] {
	return func(key string) uint64 {
		hash := uint64(fnvOffset64)
		// #nosec G103 -- read-only reinterpretation, no writes or pointer arithmetic
		data := unsafe.Slice(unsafe.StringData(key), len(key))
		for _, b := range data {
			hash ^= uint64(b)
			hash *= fnvPrime64
		}
		return hash
	}
}

// BytesHasher returns a Hasher[[]byte] using FNV-1a.
func BytesHasher() Hasher[[]byte] {
	return func(key []byte) uint64 {
		hash := uint64(fnvOffset64)
		for _, b := range key {
			hash ^= uint64(b)
			hash *= fnvPrime64
		}
		return hash
	}
}

// Uint64Hasher returns a Hasher[uint64] using the splitmix64 finalizer,
// a fast, well-distributed integer mix with no allocations.
func Uint64Hasher() Hasher[uint64] {
	return func(key uint64) uint64 {
		z := key + 0x9e3779b97f4a7c15
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}
}

// IntHasher returns a Hasher[int] built on top of Uint64Hasher.
func IntHasher() Hasher[int] {
	mix := Uint64Hasher()
	return func(key int) uint64 {
		return mix(uint64(key)) // #nosec G115 -- hash mixing, sign/width irrelevant
	}
}
