// hotconfig.go: runtime-adjustable options via Argus file watching
//
// Adapted from hot-reload.go: Map.Capacity, Map.BucketCapacity and
// Map.Variant are fixed at construction (spec.md's Non-goals exclude
// dynamic resizing), but CheckUniqueOnInsert is safe to flip live — it
// only changes whether hashedStore.insert pays for an upfront Find, never
// the table's shape.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import (
	"fmt"
	"time"

	"github.com/agilira/argus"
)

// WatchOptions configures hot reload of a Map's runtime-adjustable
// settings from a configuration file (JSON, YAML, TOML, HCL, INI or
// Properties, detected by argus from the file extension).
type WatchOptions struct {
	// ConfigPath is the file to watch. Required.
	ConfigPath string

	// PollInterval is how often to check for changes. Default 1s,
	// floor 100ms, mirroring the teacher's HotConfigOptions.
	PollInterval time.Duration

	// OnReload is called, if set, after each successful reload with the
	// new CheckUniqueOnInsert value. Must be fast and non-blocking.
	OnReload func(checkUniqueOnInsert bool)
}

// checkUniqueSetter is implemented by hashedStore; VariantSequential maps
// have no use for the setting and simply ignore reloads.
type checkUniqueSetter interface {
	setCheckUniqueOnInsert(bool)
}

// WatchConfigFile attaches an Argus-backed file watcher to m, reloading
// CheckUniqueOnInsert whenever the file changes. Call m.Close() to stop
// the watcher.
//
// Recognized key, at top level or nested under a "cellmap" section:
//
//	check_unique_on_insert (bool)
func WatchConfigFile[K comparable, V Value](m *Map[K, V], opts WatchOptions) error {
	if opts.ConfigPath == "" {
		return fmt.Errorf("cellmap: config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	setter, ok := m.keys.(checkUniqueSetter)

	handle := func(data map[string]interface{}) {
		if !ok {
			return
		}
		section, found := data["cellmap"].(map[string]interface{})
		if !found {
			section = data
		}
		value, found := parseBool(section["check_unique_on_insert"])
		if !found {
			return
		}
		setter.setCheckUniqueOnInsert(value)
		m.opts.CheckUniqueOnInsert = value
		if opts.OnReload != nil {
			opts.OnReload(value)
		}
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, handle, argus.Config{
		PollInterval: opts.PollInterval,
	})
	if err != nil {
		return err
	}

	m.watcher = watcher
	return nil
}

// parseBool extracts a bool from the loosely-typed values argus hands
// back from JSON/YAML/TOML parsing.
func parseBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}
