// Package concurrent provides a small library of lock-free and lock-light
// concurrent containers built on atomic array cells: a fixed-domain
// enum-keyed map and a resizable array with a nonblocking, cooperative
// resize.
//
// # Overview
//
// Two containers carry the real engineering:
//
//   - EnumMap[K, V]: a fixed-capacity concurrent map whose keys are
//     ordinals of a statically-known finite domain {0 .. N-1}. Every slot
//     is updated independently via atomic compare-and-set.
//   - ResizableArray[T]: an indexed container supporting concurrent
//     Get/Set/Cas with a nonblocking resize that migrates cells
//     cooperatively between old and new backing storage using forwarding
//     markers.
//
// # Quick Start
//
//	type Weekday int
//
//	const (
//	    Monday Weekday = iota
//	    Tuesday
//	    Wednesday
//	    Thursday
//	    Friday
//	    Saturday
//	    Sunday
//	)
//
//	m := concurrent.NewEnumMap[Weekday, string](concurrent.EnumDomain[Weekday]{
//	    Values: []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday},
//	})
//	m.Put(Monday, "standup")
//	if v, ok := m.Get(Monday); ok {
//	    fmt.Println(v)
//	}
//
//	arr := concurrent.NewResizableArray[int](8)
//	arr.Set(3, 42)
//	arr.Resize(16)
//	v, _ := arr.Get(3) // 42, transparently migrated
//
// # Concurrency Model
//
//   - EnumMap operations are lock-free: each CAS retry observes a
//     strictly newer state before retrying.
//   - ResizableArray: any write that observes an in-progress resize helps
//     migrate cells by running the RIGHT worker, then waits for the LEFT
//     worker, which runs on the resizing goroutine, to return. A helping
//     write therefore does not complete while the original resizer is
//     stalled mid-scan.
//   - EnumMap iterators are weakly consistent: they never
//     fail under concurrent mutation and make no guarantee about which
//     concurrent updates they observe.
//
// # Resize Protocol
//
// Resize is driven by a transfer descriptor shared between a LEFT worker
// (ascending, the resize initiator) and an optional RIGHT worker
// (descending, lazily created by any operation that observes the resize
// in progress and needs to help). Each slot transitions monotonically
// from EMPTY or a user value to a forwarding marker; the migrated value is
// published into the destination array with a store-if-empty
// compare-and-swap before the source slot is marked migrated, and the
// worker whose mark succeeds stores that value again afterwards, so the
// destination ends up holding the value the source held when it was
// marked.
// A write that helps a resize along (as opposed to a lookup-only read)
// additionally waits for both the LEFT worker and any installed RIGHT
// helper to fully return before the transfer is considered complete and
// its destination array published, since one worker reaching the end of
// its range only means the scan met a counterpart there, not that the
// counterpart's goroutine has stopped running.
//
// # Observability
//
// Both constructors accept Options that set a Logger (resize lifecycle
// events only — never the single-slot hot path), a TimeProvider, and a
// MetricsCollector. A MetricsCollector implementation backed by
// OpenTelemetry is available as a separate module,
// github.com/ZelvaLea/MyConcurrencyWorld/otelmetrics, mirroring the way
// the core module has zero OpenTelemetry dependencies of its own.
//
// # Error Handling
//
// Errors are structured via github.com/agilira/go-errors and carry an
// error code (CCMAP_*, CCARR_*, CCCORE_*). Callers see bad-argument,
// iterator-exhausted, invalid-length and index-out-of-bounds errors, and
// a recovered panic from a Compute callback; CAS contention is always
// absorbed internally by retry loops.
//
// # Non-goals
//
//   - Dynamic key domains for EnumMap: its capacity equals the domain
//     size passed at construction and never changes.
//   - Range operations, sorted iteration, or transactional multi-key
//     updates.
//   - Strong consistency between iteration and concurrent mutation.
//   - Serialization format stability across versions.
package concurrent
