// array.go: public facade for the concurrent resizable array
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

// ResizableArray is an indexed container supporting concurrent Get/Set/Cas
// with a nonblocking resize that migrates cells cooperatively between old
// and new backing storage using forwarding markers (§4.4/§4.5).
type ResizableArray[T any] struct {
	current atomic.Pointer[backing]
	// active is the in-flight resize, if any. Serializing resize calls
	// through this single pointer keeps at most one transfer scanning a
	// given source array at a time in ordinary use; transfer.go's
	// foreign-descriptor rebase path exists only to stay correct if that
	// invariant is ever broken by a caller driving two transfers
	// directly (see DESIGN.md).
	active atomic.Pointer[transfer]

	cfg Config
}

// NewResizableArray creates a resizable array of the given initial
// length, every slot starting empty.
func NewResizableArray[T any](length int, opts ...Option) *ResizableArray[T] {
	if length < 0 {
		length = 0
	}
	a := &ResizableArray[T]{cfg: resolveConfig(opts...)}
	a.current.Store(newBacking(length))
	return a
}

// Len returns the length of the currently-published backing array.
func (a *ResizableArray[T]) Len() int {
	return a.current.Load().length()
}

// chase follows forwarding markers from (b, i) into their destination
// arrays until it lands on a non-forwarding cell. When mustHelp is true
// (write paths) it drives each transfer it encounters to completion
// before following it, per §4.5's help semantics; read paths only
// follow, per §4.4's "for reads this is lookup-only".
func (a *ResizableArray[T]) chase(b *backing, i int, mustHelp bool) (*backing, int) {
	for {
		f := loadAcquire(b.cells, i)
		if !f.isForward() {
			return b, i
		}
		t := f.fwd.src
		if mustHelp {
			a.drive(t)
		}
		b, i = t.next, i-t.srcOff+t.dstOff
	}
}

// drive ensures t's RIGHT worker exists, waits for it to finish, then
// waits for the LEFT worker too before returning. A RIGHT worker that
// reaches the end of its range either meets LEFT or exhausts its own
// range; either way that only proves every position has been claimed by
// someone, not that LEFT's goroutine has actually returned and stopped
// running, so drive always waits on both before t is usable (§8, "Help
// liveness"; see transfer.awaitCompletion).
func (a *ResizableArray[T]) drive(t *transfer) {
	if !t.done() {
		w, installed := t.ensureRightHelper()
		if installed {
			t.run(w)
		} else {
			<-w.done
		}
		t.awaitCompletion()
	}
}

// publish makes a completed transfer's destination array the container's
// current array. Callers are expected to have already driven t to full
// completion (t.done()); publish does not itself wait, since the only
// caller that runs LEFT directly (ResizeRange) awaits completion first
// and every other caller reaches publish through drive. It is safe to
// call from any goroutine that observes completion, not just the one
// that started the resize; both CAS operations are no-ops if another
// goroutine already published first.
func (a *ResizableArray[T]) publish(t *transfer) {
	a.current.CompareAndSwap(t.srcBacking, t.next)
	a.active.CompareAndSwap(t, nil)
}

// locate resolves a logical index to a concrete (backing, index) pair.
// If i falls outside the currently published array but an active resize
// targets a larger length, locate helps that resize along (on write
// paths) until it can be published, then resolves against the newly
// published array. ok is false when i can't currently be resolved (an
// out-of-range index with no resize in flight, or a read path that can't
// force one to completion).
func (a *ResizableArray[T]) locate(i int, mustHelp bool) (b *backing, idx int, ok bool) {
	for {
		cur := a.current.Load()
		if i >= 0 && i < cur.length() {
			rb, ri := a.chase(cur, i, mustHelp)
			return rb, ri, true
		}

		t := a.active.Load()
		if t == nil {
			return nil, 0, false
		}
		if !mustHelp {
			return nil, 0, false
		}
		a.drive(t)
		if t.done() {
			a.publish(t)
		}
		// loop: re-check bounds against whatever is now published
	}
}

// Get returns the current value at i, transparently chasing forwarding
// markers into the destination array of any in-progress resize.
func (a *ResizableArray[T]) Get(i int) (T, bool) {
	var zero T
	b, idx, ok := a.locate(i, false)
	if !ok {
		return zero, false
	}
	s := loadAcquire(b.cells, idx)
	if !s.isValue() {
		return zero, false
	}
	v, _ := s.value.(T)
	return v, true
}

// Set stores v at i and returns the prior value, if any. It helps any
// observed in-progress resize before retrying, per §4.4.
func (a *ResizableArray[T]) Set(i int, v T) (T, bool, error) {
	var zero T
	if i < 0 {
		return zero, false, NewErrIndexOutOfBounds(i, a.Len())
	}
	newSlot := newValueSlot(v)
	for {
		b, idx, ok := a.locate(i, true)
		if !ok {
			return zero, false, NewErrIndexOutOfBounds(i, a.Len())
		}
		old := loadAcquire(b.cells, idx)
		if old.isForward() {
			// A newer resize raced in between locate and this load;
			// retry from the top so it gets helped too.
			continue
		}
		if !cas(b.cells, idx, old, newSlot) {
			continue
		}
		if old.isValue() {
			ov, _ := old.value.(T)
			return ov, true, nil
		}
		return zero, false, nil
	}
}

// Cae is compare-and-exchange: if the slot at i holds a value equal to
// expected, it is replaced with new and (expected, true, nil) is
// returned; otherwise the slot's actual current value is returned
// unchanged along with false. Equality is structural (reflect.DeepEqual)
// since ResizableArray is generic over any T, not just comparable types.
func (a *ResizableArray[T]) Cae(i int, expected, new T) (T, bool, error) {
	var zero T
	for {
		b, idx, ok := a.locate(i, true)
		if !ok {
			return zero, false, NewErrIndexOutOfBounds(i, a.Len())
		}
		old := loadAcquire(b.cells, idx)
		if old.isForward() {
			continue
		}

		var actual T
		if old.isValue() {
			actual, _ = old.value.(T)
		}
		if !old.isValue() || !reflect.DeepEqual(actual, expected) {
			return actual, false, nil
		}

		if cas(b.cells, idx, old, newValueSlot(new)) {
			return actual, true, nil
		}
		// lost the race, retry
	}
}

// Cas is compare-and-set: shorthand for Cae that reports only success.
func (a *ResizableArray[T]) Cas(i int, expected, new T) (bool, error) {
	_, swapped, err := a.Cae(i, expected, new)
	return swapped, err
}

// Resize grows or shrinks the array to newLen, migrating slot 0..min(old,new)-1
// unchanged.
func (a *ResizableArray[T]) Resize(newLen int) error {
	return a.ResizeRange(0, 0, newLen)
}

// ResizeRange allocates a fresh destination array of newLen, constructs a
// transfer descriptor migrating src[srcOff:] into next[dstOff:], runs the
// LEFT worker to completion, then publishes the destination.
func (a *ResizableArray[T]) ResizeRange(srcOff, dstOff, newLen int) error {
	if newLen < 0 {
		return NewErrInvalidLength(newLen)
	}

	for {
		if existing := a.active.Load(); existing != nil {
			// A resize is already in flight: help it rather than racing
			// a second transfer against the same source array.
			a.drive(existing)
			if existing.done() {
				a.publish(existing)
			}
			continue
		}

		src := a.current.Load()
		next := newBacking(newLen)
		size := src.length() - srcOff
		if room := newLen - dstOff; size > room {
			size = room
		}
		if size < 0 {
			size = 0
		}
		t := newTransfer(src, next, srcOff, dstOff, size, a.cfg.Logger)

		if !a.active.CompareAndSwap(nil, t) {
			continue // another goroutine won the race to start a resize
		}

		start := a.cfg.TimeProvider.Now()
		a.cfg.Logger.Debug("resize start", "oldLen", src.length(), "newLen", newLen)

		t.run(t.left)
		t.awaitCompletion()
		a.publish(t)

		a.cfg.MetricsCollector.RecordResize(a.cfg.TimeProvider.Now()-start, src.length(), newLen)
		a.cfg.Logger.Debug("resize complete", "oldLen", src.length(), "newLen", newLen)
		return nil
	}
}

// String renders the array's current contents, tolerating concurrent
// migration by following forwarding markers into next and resuming
// traversal there (§6).
func (a *ResizableArray[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	n := a.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v, ok := a.Get(i); ok {
			fmt.Fprintf(&sb, "%v", v)
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
