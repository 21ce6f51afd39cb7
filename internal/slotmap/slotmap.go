// Package slotmap provides generational-index storage.
//
// A key packs a 32-bit slot index (low bits) and a 32-bit generation (high
// bits). Generations start at 1, so the zero key is never valid and can be
// used as a null handle. Removing a value bumps its slot generation and
// recycles the slot through a free list; keys that referred to the old value
// stop resolving instead of aliasing the new one.
package slotmap

import "iter"

// Key is the constraint satisfied by handle types stored in a Map.
type Key interface {
	~uint64
}

// MakeKey packs a slot index and generation into a key.
func MakeKey[K Key](index, generation uint32) K {
	return K(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index encoded in k.
func Index[K Key](k K) uint32 { return uint32(uint64(k)) }

// Generation returns the generation encoded in k.
func Generation[K Key](k K) uint32 { return uint32(uint64(k) >> 32) }

type slot[V any] struct {
	value      V
	generation uint32
	occupied   bool
}

// Map stores values addressed by generational keys.
// The zero Map is ready to use. Map is not safe for concurrent use.
type Map[K Key, V any] struct {
	slots []slot[V]
	free  []uint32
	len   int
}

// New returns an empty map with room for capacity values.
func New[K Key, V any](capacity int) *Map[K, V] {
	return &Map[K, V]{slots: make([]slot[V], 0, capacity)}
}

// Insert stores v and returns its key.
func (m *Map[K, V]) Insert(v V) K {
	m.len++
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		s := &m.slots[idx]
		s.value = v
		s.occupied = true
		return MakeKey[K](idx, s.generation)
	}
	idx := uint32(len(m.slots))
	m.slots = append(m.slots, slot[V]{value: v, generation: 1, occupied: true})
	return MakeKey[K](idx, 1)
}

func (m *Map[K, V]) slotFor(k K) *slot[V] {
	idx := Index(k)
	if int(idx) >= len(m.slots) {
		return nil
	}
	s := &m.slots[idx]
	if !s.occupied || s.generation != Generation(k) {
		return nil
	}
	return s
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if s := m.slotFor(k); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// Ptr returns a pointer to the value stored under k, or nil.
// The pointer is invalidated by the next Insert.
func (m *Map[K, V]) Ptr(k K) *V {
	if s := m.slotFor(k); s != nil {
		return &s.value
	}
	return nil
}

// Contains reports whether k refers to a live value.
func (m *Map[K, V]) Contains(k K) bool { return m.slotFor(k) != nil }

// Remove deletes the value stored under k and returns it.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	var zero V
	s := m.slotFor(k)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	m.free = append(m.free, Index(k))
	m.len--
	return v, true
}

// Len returns the number of live values.
func (m *Map[K, V]) Len() int { return m.len }

// Clear removes every value. Keys issued before Clear never resolve again.
func (m *Map[K, V]) Clear() {
	var zero V
	m.free = m.free[:0]
	for i := len(m.slots) - 1; i >= 0; i-- {
		s := &m.slots[i]
		if s.occupied {
			s.value = zero
			s.occupied = false
			s.generation++
			if s.generation == 0 {
				s.generation = 1
			}
		}
		m.free = append(m.free, uint32(i))
	}
	m.len = 0
}

// All iterates live values in slot order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(MakeKey[K](uint32(i), s.generation), s.value) {
				return
			}
		}
	}
}

// Keys returns the live keys in slot order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.len)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}
