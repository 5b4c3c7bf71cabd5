// hasher_test.go: tests for the built-in Hasher implementations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "testing"

func TestStringHasherDeterministic(t *testing.T) {
	h := StringHasher()
	if h("alpha") != h("alpha") {
		t.Fatal("StringHasher must be deterministic")
	}
	if h("alpha") == h("beta") {
		t.Fatal("distinct strings should (almost certainly) hash differently")
	}
}

func TestStringHasherEmptyString(t *testing.T) {
	h := StringHasher()
	if h("") != fnvOffset64 {
		t.Fatalf("hash of empty string = %d; want the FNV offset basis", h(""))
	}
}

func TestBytesHasherMatchesStringHasher(t *testing.T) {
	if StringHasher()("hello") != BytesHasher()([]byte("hello")) {
		t.Fatal("StringHasher and BytesHasher should agree on the same bytes")
	}
}

func TestUint64HasherDeterministic(t *testing.T) {
	h := Uint64Hasher()
	if h(42) != h(42) {
		t.Fatal("Uint64Hasher must be deterministic")
	}
	if h(42) == h(43) {
		t.Fatal("distinct integers should (almost certainly) hash differently")
	}
}

func TestIntHasherConsistentWithUint64Hasher(t *testing.T) {
	if IntHasher()(7) != Uint64Hasher()(7) {
		t.Fatal("IntHasher should be a thin wrapper over Uint64Hasher")
	}
}
