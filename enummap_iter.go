// enummap_iter.go: weakly consistent views and iterators over EnumMap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import "sync"

// enumMapIterator is a weakly consistent cursor over an EnumMap's slots:
// it never fails under concurrent mutation and makes no guarantee about
// which concurrent updates it reflects (§4.6).
type enumMapIterator[K ~int, V any] struct {
	m       *EnumMap[K, V]
	pos     int // next candidate index to inspect
	lastIdx int // index Remove() would act on; -1 once consumed or unset
}

func newEnumMapIterator[K ~int, V any](m *EnumMap[K, V]) *enumMapIterator[K, V] {
	return &enumMapIterator[K, V]{m: m, lastIdx: -1}
}

// HasNext advances the cursor past empty slots and reports whether a
// further element is available. Per the Open Question resolution
// recorded in DESIGN.md, HasNext is not side-effect-free — it mutates
// pos, mirroring the teacher's MapIterator.advance() shape rather than
// peeking without consuming.
func (it *enumMapIterator[K, V]) HasNext() bool {
	for it.pos < len(it.m.cells) {
		if loadAcquire(it.m.cells, it.pos).isValue() {
			return true
		}
		it.pos++
	}
	return false
}

// Next returns the next (key, value) pair and advances past it. ok is
// false once the iterator is exhausted. A slot that a concurrent Remove
// or Clear empties between HasNext and this call is skipped rather than
// returned as a stale value.
func (it *enumMapIterator[K, V]) Next() (key K, value V, ok bool) {
	for it.HasNext() {
		idx := it.pos
		s := loadAcquire(it.m.cells, idx)
		it.pos++
		if !s.isValue() {
			continue
		}
		v, _ := s.value.(V)
		it.lastIdx = idx
		return it.m.domain.Values[idx], v, true
	}
	return key, value, false
}

// MustNext is Next without the ok return value: it panics with
// ErrCodeIteratorExhausted once the iterator has no further elements,
// for callers that would rather panic than check a bool every time.
func (it *enumMapIterator[K, V]) MustNext() (K, V) {
	k, v, ok := it.Next()
	if !ok {
		panic(NewErrIteratorExhausted())
	}
	return k, v
}

// Remove clears the slot most recently returned by Next. It is a no-op
// if that slot is already empty (e.g. a concurrent Remove raced it) and
// only decrements the cardinality counter on a genuine present-to-absent
// transition.
func (it *enumMapIterator[K, V]) Remove() {
	if it.lastIdx < 0 {
		return
	}
	old := exchange(it.m.cells, it.lastIdx, emptySlot)
	if old.isValue() {
		it.m.counter.add(-1, uint32(it.lastIdx))
	}
	it.lastIdx = -1
}

// KeyIterator walks only the keys of an EnumMap.
type KeyIterator[K ~int, V any] struct{ it *enumMapIterator[K, V] }

func (ki *KeyIterator[K, V]) HasNext() bool { return ki.it.HasNext() }
func (ki *KeyIterator[K, V]) Next() (K, bool) {
	k, _, ok := ki.it.Next()
	return k, ok
}
func (ki *KeyIterator[K, V]) MustNext() K {
	k, _ := ki.it.MustNext()
	return k
}
func (ki *KeyIterator[K, V]) Remove() { ki.it.Remove() }

// ValueIterator walks only the values of an EnumMap.
type ValueIterator[K ~int, V any] struct{ it *enumMapIterator[K, V] }

func (vi *ValueIterator[K, V]) HasNext() bool { return vi.it.HasNext() }
func (vi *ValueIterator[K, V]) Next() (V, bool) {
	_, v, ok := vi.it.Next()
	return v, ok
}
func (vi *ValueIterator[K, V]) MustNext() V {
	_, v := vi.it.MustNext()
	return v
}
func (vi *ValueIterator[K, V]) Remove() { vi.it.Remove() }

// EntryIterator walks (key, value) pairs of an EnumMap.
type EntryIterator[K ~int, V any] struct{ it *enumMapIterator[K, V] }

func (ei *EntryIterator[K, V]) HasNext() bool       { return ei.it.HasNext() }
func (ei *EntryIterator[K, V]) Next() (K, V, bool)  { return ei.it.Next() }
func (ei *EntryIterator[K, V]) MustNext() (K, V)    { return ei.it.MustNext() }
func (ei *EntryIterator[K, V]) Remove()             { ei.it.Remove() }

// KeyView, ValueView, and EntryView are cached handles returned by
// EnumMap.Keys/Values/Entries; each produces a fresh weakly consistent
// iterator on demand (§4.3's "views are cached on first access").
type KeyView[K ~int, V any] struct{ m *EnumMap[K, V] }
type ValueView[K ~int, V any] struct{ m *EnumMap[K, V] }
type EntryView[K ~int, V any] struct{ m *EnumMap[K, V] }

func (v *KeyView[K, V]) Iterator() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{it: newEnumMapIterator(v.m)}
}
func (v *ValueView[K, V]) Iterator() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{it: newEnumMapIterator(v.m)}
}
func (v *EntryView[K, V]) Iterator() *EntryIterator[K, V] {
	return &EntryIterator[K, V]{it: newEnumMapIterator(v.m)}
}

// enumMapViews lazily constructs and caches the three view handles for
// an EnumMap, each built at most once regardless of how many goroutines
// race to access it first.
type enumMapViews[K ~int, V any] struct {
	m *EnumMap[K, V]

	keysOnce, valuesOnce, entriesOnce sync.Once
	keysView                         *KeyView[K, V]
	valuesView                       *ValueView[K, V]
	entriesView                      *EntryView[K, V]
}

func newEnumMapViews[K ~int, V any](m *EnumMap[K, V]) enumMapViews[K, V] {
	return enumMapViews[K, V]{m: m}
}

// Keys returns the cached key view.
func (m *EnumMap[K, V]) Keys() *KeyView[K, V] {
	m.views.keysOnce.Do(func() { m.views.keysView = &KeyView[K, V]{m: m} })
	return m.views.keysView
}

// Values returns the cached value view.
func (m *EnumMap[K, V]) Values() *ValueView[K, V] {
	m.views.valuesOnce.Do(func() { m.views.valuesView = &ValueView[K, V]{m: m} })
	return m.views.valuesView
}

// Entries returns the cached entry view.
func (m *EnumMap[K, V]) Entries() *EntryView[K, V] {
	m.views.entriesOnce.Do(func() { m.views.entriesView = &EntryView[K, V]{m: m} })
	return m.views.entriesView
}

// Iterator is shorthand for Entries().Iterator().
func (m *EnumMap[K, V]) Iterator() *EntryIterator[K, V] {
	return m.Entries().Iterator()
}
