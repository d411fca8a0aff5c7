// cell.go: atomic cell primitives shared by both containers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import (
	"sync/atomic"
	"unsafe"
)

// loadAcquire reads cells[i] with acquire ordering, observing any value
// published by a prior storeRelease/cas/exchange on the same cell.
func loadAcquire(cells []unsafe.Pointer, i int) *Slot {
	return (*Slot)(atomic.LoadPointer(&cells[i]))
}

// storeRelease publishes s into cells[i] with release ordering: any
// goroutine that subsequently loadAcquire's this cell observes every
// write that happened before this call.
func storeRelease(cells []unsafe.Pointer, i int, s *Slot) {
	atomic.StorePointer(&cells[i], unsafe.Pointer(s))
}

// cas performs a strong compare-and-set on cells[i]: it never fails
// spuriously, only on a genuine mismatch against expected.
func cas(cells []unsafe.Pointer, i int, expected, new *Slot) bool {
	return atomic.CompareAndSwapPointer(&cells[i], unsafe.Pointer(expected), unsafe.Pointer(new))
}

// weakCAS is the same operation as cas. Go's sync/atomic exposes no weak
// compare-and-set that is allowed to fail spuriously even when expected
// matches; CompareAndSwapPointer is already the strongest guarantee the
// runtime gives us on every architecture Go targets. Every weakCAS call
// site in the transfer protocol is already inside a retry loop that
// re-reads the cell on failure (see transfer.go), so the two names carry
// identical semantics here — documented as an Open Question resolution
// in DESIGN.md rather than left implicit.
func weakCAS(cells []unsafe.Pointer, i int, expected, new *Slot) bool {
	return cas(cells, i, expected, new)
}

// exchange atomically replaces cells[i] with s and returns the previous
// value.
func exchange(cells []unsafe.Pointer, i int, s *Slot) *Slot {
	return (*Slot)(atomic.SwapPointer(&cells[i], unsafe.Pointer(s)))
}
