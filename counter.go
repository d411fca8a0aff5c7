// counter.go: striped cardinality counter for the concurrent containers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import (
	"math"
	"sync/atomic"
)

// cacheLinePad absorbs the rest of a 64-byte cache line so neighboring
// stripes never false-share.
const cacheLinePad = 64 - 8

// counterStripe is one striped accumulator. Padding keeps each stripe on
// its own cache line under concurrent add() from independent goroutines.
type counterStripe struct {
	value int64
	_     [cacheLinePad]byte
}

// cardinalityCounter is an approximate, striped size counter. EnumMap
// uses it instead of a single shared atomic counter so that concurrent
// Put/Remove from unrelated goroutines don't
// serialize on one cache line. sum() is only ever consulted for
// diagnostics (Size, IsEmpty) and is never part of a correctness
// invariant: a reader racing a writer may observe a stale total.
type cardinalityCounter struct {
	stripes []counterStripe
	mask    uint32
}

// newCardinalityCounter creates a counter with stripeCount stripes,
// rounded up to a power of two so stripe selection can use a mask
// instead of a modulo.
func newCardinalityCounter(stripeCount int) *cardinalityCounter {
	n := nextPowerOf2(stripeCount)
	if n < 1 {
		n = 1
	}
	return &cardinalityCounter{
		stripes: make([]counterStripe, n),
		mask:    uint32(n - 1),
	}
}

// stripeFor selects a stripe for the calling goroutine. Picking the
// stripe from goroutine-local entropy would require a runtime hook we
// don't have, so stripe selection is keyed off the caller-supplied hint
// instead: contention is reduced, not eliminated, which is sufficient
// since sum() is only approximate anyway.
func (c *cardinalityCounter) stripeFor(hint uint32) *counterStripe {
	return &c.stripes[hint&c.mask]
}

// add adjusts the counter by delta, striped across goroutines by hint
// (typically a key's ordinal or an index, so the same logical slot tends
// to land on the same stripe).
func (c *cardinalityCounter) add(delta int64, hint uint32) {
	atomic.AddInt64(&c.stripeFor(hint).value, delta)
}

// sum returns the current approximate total, clamped at zero: transient
// reordering between concurrent add(+1) and add(-1) calls on different
// stripes can otherwise produce a small negative total, which has no
// sensible external meaning.
func (c *cardinalityCounter) sum() int64 {
	var total int64
	for i := range c.stripes {
		total += atomic.LoadInt64(&c.stripes[i].value)
	}
	if total < 0 {
		return 0
	}
	return total
}

// size returns sum() saturated to a 32-bit value, matching the Size()
// signature both containers expose publicly.
func (c *cardinalityCounter) size() int32 {
	total := c.sum()
	if total > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(total)
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
