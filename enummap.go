// enummap.go: fixed-domain concurrent map keyed by enum ordinals
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import (
	"reflect"
	"unsafe"
)

// EnumDomain describes the finite, ordered set of keys an EnumMap is
// built over. ordinal(Values[i]) == i: slot index equals position in
// Values.
type EnumDomain[K ~int] struct {
	Values []K
}

// EnumMap is a fixed-capacity concurrent map whose keys are members of a
// statically-known finite domain. Every slot is an independent atomic
// cell; capacity equals the domain's cardinality and never changes
// (§4.3).
type EnumMap[K ~int, V any] struct {
	cells    []unsafe.Pointer
	domain   EnumDomain[K]
	ordinals map[K]int
	counter  *cardinalityCounter
	cfg      Config

	views enumMapViews[K, V]
}

// NewEnumMap creates an EnumMap over domain, starting empty.
func NewEnumMap[K ~int, V any](domain EnumDomain[K], opts ...Option) *EnumMap[K, V] {
	cfg := resolveConfig(opts...)
	n := len(domain.Values)

	m := &EnumMap[K, V]{
		cells:    make([]unsafe.Pointer, n),
		domain:   domain,
		ordinals: make(map[K]int, n),
		counter:  newCardinalityCounter(cfg.StripeCount),
		cfg:      cfg,
	}
	for i := range m.cells {
		m.cells[i] = unsafe.Pointer(emptySlot)
	}
	for i, k := range domain.Values {
		m.ordinals[k] = i
	}
	m.views = newEnumMapViews(m)
	return m
}

// ordinal resolves a key to its slot index. A key that was never part of
// the domain supplied at construction is simply not found; per §4.3's
// key-validation policy, this is surfaced as absence on read paths and
// as ErrCodeBadKey on mutators.
func (m *EnumMap[K, V]) ordinal(key K) (int, bool) {
	idx, ok := m.ordinals[key]
	return idx, ok
}

// isNilValue reports whether v is a nil pointer, interface, map, slice,
// chan, or func. EnumMap forbids nil values the way the source forbids
// null values; Go's "nil" isn't a single concept across types, so the
// check goes through reflection rather than a plain v == nil (which
// doesn't even compile for every possible V).
func isNilValue[V any](v V) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// Get returns the value mapped to key, or the zero value and false if
// key is unmapped or outside the domain. An out-of-domain key is never
// an error here: only mutators reject it.
func (m *EnumMap[K, V]) Get(key K) (V, bool) {
	var zero V
	start := m.cfg.TimeProvider.Now()
	idx, ok := m.ordinal(key)
	if !ok {
		m.cfg.MetricsCollector.RecordGet(m.cfg.TimeProvider.Now()-start, false)
		return zero, false
	}
	s := loadAcquire(m.cells, idx)
	if !s.isValue() {
		m.cfg.MetricsCollector.RecordGet(m.cfg.TimeProvider.Now()-start, false)
		return zero, false
	}
	v, _ := s.value.(V)
	m.cfg.MetricsCollector.RecordGet(m.cfg.TimeProvider.Now()-start, true)
	return v, true
}

// ContainsKey reports whether key is mapped.
func (m *EnumMap[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put maps key to value unconditionally and returns the previous value,
// if any. Both key and value are required: an out-of-domain key or a nil
// value is rejected with an error rather than silently ignored.
func (m *EnumMap[K, V]) Put(key K, value V) (V, error) {
	var zero V
	start := m.cfg.TimeProvider.Now()
	idx, ok := m.ordinal(key)
	if !ok {
		return zero, NewErrBadKey("Put", -1)
	}
	if isNilValue(value) {
		return zero, NewErrBadValue("Put")
	}

	old := exchange(m.cells, idx, newValueSlot(value))
	if old.isEmpty() {
		m.counter.add(1, uint32(idx))
	}
	m.cfg.MetricsCollector.RecordSet(m.cfg.TimeProvider.Now() - start)
	if old.isValue() {
		ov, _ := old.value.(V)
		return ov, nil
	}
	return zero, nil
}

// Remove unconditionally clears key's mapping and returns the removed
// value, if any.
func (m *EnumMap[K, V]) Remove(key K) (V, bool) {
	var zero V
	start := m.cfg.TimeProvider.Now()
	idx, ok := m.ordinal(key)
	if !ok {
		m.cfg.MetricsCollector.RecordRemove(m.cfg.TimeProvider.Now()-start, false)
		return zero, false
	}
	old := exchange(m.cells, idx, emptySlot)
	removed := old.isValue()
	if removed {
		m.counter.add(-1, uint32(idx))
	}
	m.cfg.MetricsCollector.RecordRemove(m.cfg.TimeProvider.Now()-start, removed)
	if removed {
		ov, _ := old.value.(V)
		return ov, true
	}
	return zero, false
}

// RemoveValue removes key's mapping only if it currently equals value.
func (m *EnumMap[K, V]) RemoveValue(key K, value V) bool {
	idx, ok := m.ordinal(key)
	if !ok {
		return false
	}
	for {
		cur := loadAcquire(m.cells, idx)
		if !cur.isValue() || !reflect.DeepEqual(cur.value, value) {
			return false
		}
		if cas(m.cells, idx, cur, emptySlot) {
			m.counter.add(-1, uint32(idx))
			return true
		}
	}
}

// Replace swaps key's mapping from old to new, only if it currently
// equals old.
func (m *EnumMap[K, V]) Replace(key K, old, new V) bool {
	idx, ok := m.ordinal(key)
	if !ok {
		return false
	}
	for {
		cur := loadAcquire(m.cells, idx)
		if !cur.isValue() || !reflect.DeepEqual(cur.value, old) {
			return false
		}
		if cas(m.cells, idx, cur, newValueSlot(new)) {
			return true
		}
	}
}

// PutIfAbsent maps key to value only if it is currently unmapped, and
// returns the value already present otherwise (without modifying it).
func (m *EnumMap[K, V]) PutIfAbsent(key K, value V) (V, error) {
	var zero V
	idx, ok := m.ordinal(key)
	if !ok {
		return zero, NewErrBadKey("PutIfAbsent", -1)
	}
	if isNilValue(value) {
		return zero, NewErrBadValue("PutIfAbsent")
	}
	for {
		cur := loadAcquire(m.cells, idx)
		if cur.isValue() {
			ov, _ := cur.value.(V)
			return ov, nil
		}
		if cas(m.cells, idx, cur, newValueSlot(value)) {
			m.counter.add(1, uint32(idx))
			return zero, nil
		}
	}
}

// Compute applies remap to key's current value (the zero value and
// present=false if unmapped) and stores whatever remap returns: keep=
// true stores the returned value, keep=false removes the mapping. remap
// may be invoked more than once under contention, but each commit is via
// a strong CAS, so only the invocation whose result is actually stored
// is ever externally visible. A panic inside remap is recovered and
// reported as ErrCodePanicRecovered rather than propagating through the
// retry loop. A keep=true result that is nil is rejected as
// ErrCodeBadValue, matching the map's ban on nil values (§9).
func (m *EnumMap[K, V]) Compute(key K, remap func(cur V, present bool) (V, bool)) (result V, err error) {
	var zero V
	idx, ok := m.ordinal(key)
	if !ok {
		return zero, NewErrBadKey("Compute", -1)
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = zero, NewErrPanicRecovered("Compute", r)
		}
	}()

	for {
		cur := loadAcquire(m.cells, idx)
		present := cur.isValue()
		var curVal V
		if present {
			curVal, _ = cur.value.(V)
		}

		newVal, keep := remap(curVal, present)
		if keep && isNilValue(newVal) {
			return zero, NewErrBadValue("Compute")
		}

		var newSlot *Slot
		if keep {
			newSlot = newValueSlot(newVal)
		} else {
			newSlot = emptySlot
		}

		if !cas(m.cells, idx, cur, newSlot) {
			continue
		}

		switch {
		case !present && keep:
			m.counter.add(1, uint32(idx))
		case present && !keep:
			m.counter.add(-1, uint32(idx))
		}

		if keep {
			return newVal, nil
		}
		return zero, nil
	}
}

// ComputeIfAbsent maps key to f() only if it is currently unmapped. f is
// never invoked while key is already mapped, and at most twice across
// two racing callers (one uncommitted, one committed — §8 scenario 5).
func (m *EnumMap[K, V]) ComputeIfAbsent(key K, f func() V) (V, error) {
	return m.Compute(key, func(cur V, present bool) (V, bool) {
		if present {
			return cur, true
		}
		return f(), true
	})
}

// ComputeIfPresent applies f to key's current value only if key is
// mapped, and reports whether it was.
func (m *EnumMap[K, V]) ComputeIfPresent(key K, f func(V) (V, bool)) (result V, found bool, err error) {
	result, err = m.Compute(key, func(cur V, present bool) (V, bool) {
		if !present {
			return cur, false
		}
		found = true
		return f(cur)
	})
	return result, found, err
}

// Merge maps key to value if unmapped, or to remap(existing, value) if
// mapped; remap returning keep=false removes the mapping.
func (m *EnumMap[K, V]) Merge(key K, value V, remap func(old, new V) (V, bool)) (V, error) {
	var zero V
	if isNilValue(value) {
		return zero, NewErrBadValue("Merge")
	}
	return m.Compute(key, func(cur V, present bool) (V, bool) {
		if !present {
			return value, true
		}
		return remap(cur, value)
	})
}

// Clear removes every mapping.
func (m *EnumMap[K, V]) Clear() {
	for i := range m.cells {
		old := exchange(m.cells, i, emptySlot)
		if old.isValue() {
			m.counter.add(-1, uint32(i))
		}
	}
}

// PutAll copies every mapping from other into m. When both maps share
// the same domain cardinality, copying walks the two cell arrays
// index-parallel; otherwise it falls back to placing each of other's
// entries by ordinal in m (§4.3).
func (m *EnumMap[K, V]) PutAll(other *EnumMap[K, V]) error {
	if len(other.cells) == len(m.cells) {
		for i := range other.cells {
			s := loadAcquire(other.cells, i)
			if !s.isValue() {
				continue
			}
			v, _ := s.value.(V)
			if _, err := m.Put(m.domain.Values[i], v); err != nil {
				return err
			}
		}
		return nil
	}

	for i, k := range other.domain.Values {
		s := loadAcquire(other.cells, i)
		if !s.isValue() {
			continue
		}
		v, _ := s.value.(V)
		if _, err := m.Put(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the map's approximate cardinality, saturated to 32 bits.
func (m *EnumMap[K, V]) Size() int32 {
	return m.counter.size()
}

// IsEmpty reports whether the map currently has no mappings.
func (m *EnumMap[K, V]) IsEmpty() bool {
	return m.counter.sum() == 0
}

// Equal reports whether m and other observe the same (key, value) pairs.
// Like everything else about this map, the comparison is weakly
// consistent: it may observe a mix of states from concurrent mutators on
// either map.
func (m *EnumMap[K, V]) Equal(other *EnumMap[K, V]) bool {
	if other == nil {
		return false
	}
	if m.Size() != other.Size() {
		return false
	}
	for i := range m.cells {
		s := loadAcquire(m.cells, i)
		if !s.isValue() {
			continue
		}
		var key K
		if i < len(m.domain.Values) {
			key = m.domain.Values[i]
		}
		ov, ok := other.Get(key)
		if !ok || !reflect.DeepEqual(s.value, ov) {
			return false
		}
	}
	return true
}

// ContainsValue reports whether value is mapped by any key. It requires
// V to be comparable: Go cannot conditionally attach a method only when
// a generic type parameter satisfies an extra constraint, so this is a
// free function rather than a method (documented in DESIGN.md as the Go
// rendering of §9's unspecified value-equality question).
func ContainsValue[K ~int, V comparable](m *EnumMap[K, V], value V) bool {
	for i := range m.cells {
		s := loadAcquire(m.cells, i)
		if !s.isValue() {
			continue
		}
		if v, ok := s.value.(V); ok && v == value {
			return true
		}
	}
	return false
}
