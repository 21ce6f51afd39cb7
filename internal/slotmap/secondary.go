package slotmap

import "iter"

type secondarySlot[V any] struct {
	value      V
	generation uint32
}

// SecondaryMap attaches extra data to keys issued by a Map.
// An entry only resolves for the exact key it was set with.
type SecondaryMap[K Key, V any] struct {
	slots []secondarySlot[V]
	len   int
}

// NewSecondary returns an empty secondary map.
func NewSecondary[K Key, V any]() *SecondaryMap[K, V] {
	return &SecondaryMap[K, V]{}
}

// Set stores v under k, replacing any entry in the same slot.
func (m *SecondaryMap[K, V]) Set(k K, v V) {
	gen := Generation(k)
	if gen == 0 {
		return
	}
	idx := int(Index(k))
	if idx >= len(m.slots) {
		m.slots = append(m.slots, make([]secondarySlot[V], idx+1-len(m.slots))...)
	}
	s := &m.slots[idx]
	if s.generation == 0 {
		m.len++
	}
	s.value = v
	s.generation = gen
}

func (m *SecondaryMap[K, V]) slotFor(k K) *secondarySlot[V] {
	idx := int(Index(k))
	if idx >= len(m.slots) {
		return nil
	}
	s := &m.slots[idx]
	if s.generation == 0 || s.generation != Generation(k) {
		return nil
	}
	return s
}

// Get returns the value stored under k.
func (m *SecondaryMap[K, V]) Get(k K) (V, bool) {
	if s := m.slotFor(k); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// Ptr returns a pointer to the value stored under k, or nil.
func (m *SecondaryMap[K, V]) Ptr(k K) *V {
	if s := m.slotFor(k); s != nil {
		return &s.value
	}
	return nil
}

// Contains reports whether an entry exists for k.
func (m *SecondaryMap[K, V]) Contains(k K) bool { return m.slotFor(k) != nil }

// Remove deletes the entry for k and returns it.
func (m *SecondaryMap[K, V]) Remove(k K) (V, bool) {
	var zero V
	s := m.slotFor(k)
	if s == nil {
		return zero, false
	}
	v := s.value
	*s = secondarySlot[V]{}
	m.len--
	return v, true
}

// Len returns the number of entries.
func (m *SecondaryMap[K, V]) Len() int { return m.len }

// Clear removes every entry.
func (m *SecondaryMap[K, V]) Clear() {
	clear(m.slots)
	m.slots = m.slots[:0]
	m.len = 0
}

// All iterates entries in slot order.
func (m *SecondaryMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if s.generation == 0 {
				continue
			}
			if !yield(MakeKey[K](uint32(i), s.generation), s.value) {
				return
			}
		}
	}
}
