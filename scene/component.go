package scene

import (
	"iter"

	"github.com/gogpu/g3d/internal/slotmap"
)

// componentStore is the type-erased view the scene uses to drop
// components of removed entities.
type componentStore interface {
	remove(id EntityID) bool
	clear()
}

// Components is a sparse set of values of type T keyed by entity.
//
// Values are stored densely, so All iterates without holes. Removal swaps
// the last value into the freed position; iteration order is therefore
// not insertion order once anything has been removed.
type Components[T any] struct {
	scene  *Scene
	sparse []int32 // slot index -> dense index + 1
	dense  []EntityID
	values []T
}

// NewComponents returns an empty component set bound to s. Components of
// an entity are dropped when s removes the entity or is cleared.
func NewComponents[T any](s *Scene) *Components[T] {
	c := &Components[T]{scene: s}
	s.components = append(s.components, c)
	return c
}

func (c *Components[T]) denseIndex(id EntityID) int {
	i := int(slotmap.Index(id))
	if i >= len(c.sparse) || c.sparse[i] == 0 {
		return -1
	}
	d := int(c.sparse[i] - 1)
	if c.dense[d] != id {
		return -1
	}
	return d
}

// Set stores v for id. It returns false if id is not a live entity.
func (c *Components[T]) Set(id EntityID, v T) bool {
	if !c.scene.Contains(id) {
		return false
	}
	if d := c.denseIndex(id); d >= 0 {
		c.values[d] = v
		return true
	}
	i := int(slotmap.Index(id))
	if i >= len(c.sparse) {
		c.sparse = append(c.sparse, make([]int32, i+1-len(c.sparse))...)
	}
	c.dense = append(c.dense, id)
	c.values = append(c.values, v)
	c.sparse[i] = int32(len(c.dense))
	return true
}

// Get returns the value for id.
func (c *Components[T]) Get(id EntityID) (T, bool) {
	if d := c.denseIndex(id); d >= 0 {
		return c.values[d], true
	}
	var zero T
	return zero, false
}

// Ptr returns a pointer to the value for id, or nil. The pointer is
// invalidated by the next Set or Remove.
func (c *Components[T]) Ptr(id EntityID) *T {
	if d := c.denseIndex(id); d >= 0 {
		return &c.values[d]
	}
	return nil
}

// Has reports whether id has a value.
func (c *Components[T]) Has(id EntityID) bool { return c.denseIndex(id) >= 0 }

// Remove deletes the value for id.
func (c *Components[T]) Remove(id EntityID) bool { return c.remove(id) }

func (c *Components[T]) remove(id EntityID) bool {
	d := c.denseIndex(id)
	if d < 0 {
		return false
	}
	last := len(c.dense) - 1
	moved := c.dense[last]
	c.dense[d] = moved
	c.values[d] = c.values[last]
	c.sparse[slotmap.Index(moved)] = int32(d + 1)
	c.sparse[slotmap.Index(id)] = 0

	var zero T
	c.values[last] = zero
	c.dense = c.dense[:last]
	c.values = c.values[:last]
	return true
}

// Len returns the number of stored values.
func (c *Components[T]) Len() int { return len(c.dense) }

// All iterates entity/value pairs in dense order.
func (c *Components[T]) All() iter.Seq2[EntityID, T] {
	return func(yield func(EntityID, T) bool) {
		for i, id := range c.dense {
			if !yield(id, c.values[i]) {
				return
			}
		}
	}
}

func (c *Components[T]) clear() {
	clear(c.sparse)
	clear(c.values)
	c.dense = c.dense[:0]
	c.values = c.values[:0]
}
