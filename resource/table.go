package resource

import (
	"fmt"
	"iter"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/slotmap"
)

// Table stores values of one resource kind under generational handles.
//
// Pointers returned by Get and Lookup stay valid until the next Insert.
type Table[K slotmap.Key, V any] struct {
	kind  string
	slots slotmap.Map[K, V]
}

// NewTable returns an empty table. kind names the resource in panics.
func NewTable[K slotmap.Key, V any](kind string) *Table[K, V] {
	return &Table[K, V]{kind: kind}
}

// Insert stores v and returns its handle.
func (t *Table[K, V]) Insert(v V) K { return t.slots.Insert(v) }

// Get returns the value for k. It panics if k is zero, stale or unknown.
func (t *Table[K, V]) Get(k K) *V {
	v := t.slots.Ptr(k)
	if v == nil {
		panic(fmt.Sprintf("resource: invalid %s handle %#x", t.kind, uint64(k)))
	}
	return v
}

// Lookup returns the value for k and whether it exists.
func (t *Table[K, V]) Lookup(k K) (*V, bool) {
	v := t.slots.Ptr(k)
	return v, v != nil
}

// Contains reports whether k resolves.
func (t *Table[K, V]) Contains(k K) bool { return t.slots.Contains(k) }

// Remove deletes k and returns the removed value.
func (t *Table[K, V]) Remove(k K) (V, bool) { return t.slots.Remove(k) }

// Len returns the number of live values.
func (t *Table[K, V]) Len() int { return t.slots.Len() }

// All iterates live values in slot order.
func (t *Table[K, V]) All() iter.Seq2[K, V] { return t.slots.All() }

// Tables bundles the four resource tables a scene draws from.
type Tables struct {
	Meshes    *Table[MeshID, Mesh]
	Textures  *Table[TextureID, Texture]
	Shaders   *Table[ShaderID, Shader]
	Materials *Table[MaterialID, Material]
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		Meshes:    NewTable[MeshID, Mesh]("mesh"),
		Textures:  NewTable[TextureID, Texture]("texture"),
		Shaders:   NewTable[ShaderID, Shader]("shader"),
		Materials: NewTable[MaterialID, Material]("material"),
	}
}

// Destroy releases the GPU objects of every stored resource and empties
// the tables. Materials go first since they reference shader layouts and
// textures.
func (t *Tables) Destroy(b gpucore.Backend) {
	for k, m := range t.Materials.All() {
		m.Destroy(b)
		t.Materials.Remove(k)
	}
	for k, s := range t.Shaders.All() {
		s.Destroy(b)
		t.Shaders.Remove(k)
	}
	for k, tex := range t.Textures.All() {
		tex.Destroy(b)
		t.Textures.Remove(k)
	}
	for k, m := range t.Meshes.All() {
		m.Destroy(b)
		t.Meshes.Remove(k)
	}
}
