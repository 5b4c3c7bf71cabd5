// hotconfig_test.go: tests for Argus-backed option hot-reload
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchConfigFileRejectsEmptyPath(t *testing.T) {
	opts := DefaultOptions[string](StringHasher())
	opts.Variant = VariantHashedCleanup
	m, err := NewMap[string, uint16](opts)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}

	if err := WatchConfigFile(m, WatchOptions{}); err == nil {
		t.Fatal("WatchConfigFile should reject an empty ConfigPath")
	}
}

func TestWatchConfigFileReloadsCheckUnique(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cellmap.json")
	if err := os.WriteFile(path, []byte(`{"check_unique_on_insert": true}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts := DefaultOptions[string](StringHasher())
	opts.Variant = VariantHashedCleanup
	m, err := NewMap[string, uint16](opts)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	defer m.Close()

	reloaded := make(chan bool, 1)
	err = WatchConfigFile(m, WatchOptions{
		ConfigPath:   path,
		PollInterval: 100 * time.Millisecond,
		OnReload: func(checkUniqueOnInsert bool) {
			select {
			case reloaded <- checkUniqueOnInsert:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("WatchConfigFile: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"check_unique_on_insert": false}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case value := <-reloaded:
		if value {
			t.Fatal("expected the reloaded value to be false")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}

	if m.opts.CheckUniqueOnInsert {
		t.Fatal("Map.opts.CheckUniqueOnInsert should reflect the reloaded value")
	}
}
