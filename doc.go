// Package cellmap provides a lock-free, fixed-capacity, concurrent hash
// map whose cells pack a key descriptor and a small value into a single
// machine word.
//
// # Overview
//
// cellmap is designed around one idea: if a value is narrow enough (16
// bits), a whole cell — which key occupies it, plus its value — fits in
// one atomic.Uint32. That gives whole-cell read/write atomicity with no
// locks and no per-cell allocation, at the cost of a fixed capacity
// decided at construction.
//
// # Features
//
//   - Packed Cells: key descriptor and value share one atomic word
//   - Lock-Free Core: Insert/Get/ContainsKey/Update/FetchUpdate never block
//   - Two Removal Strategies: VariantSequential (key storage lives
//     forever) and VariantHashedCleanup (obstruction-free, reclaims on Remove)
//   - Type-Safe Generics: Map[K comparable, V Value]
//   - Structured Errors: stable error codes via go-errors, surfaced by
//     TryInsert and FetchUpdate
//   - Metrics Collection: MetricsCollector interface for observability
//   - Hot-Reloadable Options: CheckUniqueOnInsert via Argus file watching
//
// # Quick Start
//
//	import "github.com/agilira/cellmap"
//
//	func main() {
//	    m, err := cellmap.NewUint64Map[uint16](10_000)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    m.Insert(42, 7)
//
//	    if value, found := m.Get(42); found {
//	        fmt.Println(value) // 7
//	    }
//
//	    stats := m.Stats()
//	    fmt.Printf("hit ratio: %.2f%%\n", stats.HitRatio())
//	}
//
// # Choosing a Variant
//
// VariantSequential stores keys in a plain append-only arena: Insert and
// Get are lock-free, and Remove only tombstones the table cell, never
// freeing the key-store slot. It suits insert-mostly workloads, or ones
// that rarely remove.
//
// VariantHashedCleanup stores keys in a second open-addressed table with
// its own Empty/Inserting/Occupied/Deleted state machine, so a removed
// key's storage becomes available to a later insert. The key store may
// spin while another goroutine is publishing a key into a slot, so
// Insert, Get, Update and Remove on this variant are obstruction-free
// with bounded spin rather than strictly lock-free.
//
//	opts := cellmap.DefaultOptions[string](cellmap.StringHasher())
//	opts.Variant = cellmap.VariantHashedCleanup
//	opts.Capacity = 20_000
//	m, err := cellmap.NewMap[string, int16](opts)
//
// # Atomic Updates
//
// FetchUpdate applies a transform to the current value in a single CAS
// loop, so read-modify-write sequences never race with a concurrent
// writer touching the same key:
//
//	previous, err := m.FetchUpdate("counter", func(current int16) (int16, bool) {
//	    return current + 1, true
//	})
//
// Returning ok=false from the transform aborts the update; the caller
// sees cellmap.IsStale(err) == true — useful for compare-and-swap style
// logic layered on top of a single cell.
//
// # Capacity
//
// Capacity is fixed at construction and never resizes (spec Non-goal:
// dynamic resizing/rehashing). A Map holding Options.Capacity live
// entries returns false from Insert rather than growing; the underlying
// table is sized so the load factor stays at or below cellmap.LoadFactor
// regardless of how the caller's capacity request rounds, keeping probe
// length bounded as the map fills.
//
// Capacity must fit in the descriptor's offset space: NewMap panics if
// Capacity is negative or greater than math.MaxInt16, the same hard
// precondition the reference implementation enforces with an assertion
// at construction rather than a recoverable error.
//
// # Error Handling
//
// cellmap uses structured errors with stable codes. Insert returns a
// plain bool for the common case; TryInsert returns the same outcome as
// an error so a caller can branch on why it failed:
//
//	_, err := m.FetchUpdate(key, transform)
//	if cellmap.IsNotFound(err) {
//	    // key absent
//	} else if cellmap.IsStale(err) {
//	    // transform declined the current value
//	}
//
//	if err := m.TryInsert(key, value); cellmap.IsFull(err) {
//	    // map at effective capacity
//	} else if cellmap.IsDuplicate(err) {
//	    // key already occupies a cell
//	} else if cellmap.IsInternal(err) {
//	    // a speculative rollback lost its race and leaked a slot; the
//	    // table itself stayed consistent (spec.md §9)
//	}
//
// Available error codes:
//   - CELLMAP_INVALID_OPTION: Options field rejected at construction
//   - CELLMAP_FULL: map at effective capacity (TryInsert)
//   - CELLMAP_DUPLICATE: key already occupies a cell (TryInsert)
//   - CELLMAP_NOT_FOUND: key not found (FetchUpdate)
//   - CELLMAP_STALE_VALUE: FetchUpdate's transform rejected the current value
//   - CELLMAP_INTERNAL: a contained invariant violation (TryInsert)
//
// # Observability
//
// Built-in stats tracking:
//
//	stats := m.Stats()
//	fmt.Printf("inserts: %d, hit ratio: %.2f%%\n", stats.Inserts, stats.HitRatio())
//
// Plug in a MetricsCollector for per-operation latency and probe-length
// histograms; Options.MetricsCollector defaults to a zero-overhead no-op.
//
// # Hot Reload
//
// Options.CheckUniqueOnInsert can be flipped at runtime without
// reconstructing the map, via an Argus file watcher:
//
//	err := cellmap.WatchConfigFile(m, cellmap.WatchOptions{
//	    ConfigPath: "cellmap.yaml",
//	})
//
// Capacity, BucketCapacity and Variant are immutable for the lifetime of
// the map and are not watched.
//
// # Thread Safety
//
// All Map operations are safe for concurrent use from multiple
// goroutines. Len and Stats are best-effort snapshots and may lag
// concurrent Insert/Remove calls (spec Non-goal: no stronger consistency
// than lock-freedom provides).
package cellmap
