package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/hierarchy"
	"github.com/gogpu/g3d/internal/slotmap"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/transform"
)

// Scene holds entities, their transform hierarchy and prefabs, and the
// draw list built by the last Update.
//
// Every entity is a node of the scene's hierarchy. Its record lives in a
// parallel table keyed by the same id, and both go away together.
type Scene struct {
	tree     *hierarchy.Hierarchy
	entities slotmap.SecondaryMap[EntityID, Entity]
	owners   slotmap.SecondaryMap[EntityID, PrefabID]
	prefabs  slotmap.Map[PrefabID, Prefab]

	// standalone entities in insertion order
	renderObjects []EntityID

	components []componentStore
	transients []Entity

	buckets  []bucket
	bucketOf map[resource.ShaderID]int
	items    []DrawItem
	stats    UpdateStats
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{tree: hierarchy.New(), bucketOf: make(map[resource.ShaderID]int)}
}

func (s *Scene) insert(t transform.Transform, parent EntityID, prefab PrefabID, e Entity) EntityID {
	id := s.tree.Insert(t, parent)
	e.Matrix, _ = s.tree.WorldMatrix(id)
	s.entities.Set(id, e)
	if prefab != 0 {
		s.owners.Set(id, prefab)
	}
	return id
}

// AddEntity adds a standalone root entity with local transform t.
// e.Matrix is replaced by the world matrix.
func (s *Scene) AddEntity(t transform.Transform, e Entity) EntityID {
	id := s.insert(t, 0, 0, e)
	s.renderObjects = append(s.renderObjects, id)
	return id
}

// AddChild adds a standalone entity whose transform is relative to
// parent. An unknown parent adds a root entity.
func (s *Scene) AddChild(parent EntityID, t transform.Transform, e Entity) EntityID {
	id := s.insert(t, parent, 0, e)
	s.renderObjects = append(s.renderObjects, id)
	return id
}

// AddPrefab registers a mesh and material pair for instancing.
func (s *Scene) AddPrefab(mesh resource.MeshID, material resource.MaterialID) PrefabID {
	return s.prefabs.Insert(Prefab{Mesh: mesh, Material: material})
}

// Prefab returns the prefab for id, or nil.
func (s *Scene) Prefab(id PrefabID) *Prefab { return s.prefabs.Ptr(id) }

// AddInstance adds an instance of prefab at t. It returns zero if the
// prefab is unknown.
func (s *Scene) AddInstance(prefab PrefabID, t transform.Transform, props InstanceProperties) EntityID {
	p := s.prefabs.Ptr(prefab)
	if p == nil {
		slogger().Warn("scene: instance of unknown prefab ignored", "prefab", prefab)
		return 0
	}
	id := s.insert(t, 0, prefab, Entity{Mesh: p.Mesh, Material: p.Material, InstanceProperties: props})
	p.Instances = append(p.Instances, id)
	return id
}

// RemoveEntity removes id and all of its descendants, returning the
// number of entities removed. Each removed entity's node, record, prefab
// membership and components go together.
func (s *Scene) RemoveEntity(id EntityID) int {
	return s.tree.RemoveFunc(id, func(cur EntityID) {
		s.entities.Remove(cur)
		prefab, _ := s.owners.Remove(cur)
		s.unlink(cur, prefab)
		for _, c := range s.components {
			c.remove(cur)
		}
	})
}

func (s *Scene) unlink(id EntityID, prefab PrefabID) {
	if prefab == 0 {
		if i := slices.Index(s.renderObjects, id); i >= 0 {
			s.renderObjects = slices.Delete(s.renderObjects, i, i+1)
		}
		return
	}
	if p := s.prefabs.Ptr(prefab); p != nil {
		if i := slices.Index(p.Instances, id); i >= 0 {
			p.Instances = slices.Delete(p.Instances, i, i+1)
		}
	}
}

// RemoveInstance removes id if it is an instance of prefab, together with
// its descendants. It reports whether anything was removed.
func (s *Scene) RemoveInstance(prefab PrefabID, id EntityID) bool {
	if prefab == 0 {
		return false
	}
	if owner, ok := s.owners.Get(id); !ok || owner != prefab {
		return false
	}
	return s.RemoveEntity(id) > 0
}

// RemovePrefab removes prefab and every instance of it.
func (s *Scene) RemovePrefab(id PrefabID) bool {
	p := s.prefabs.Ptr(id)
	if p == nil {
		return false
	}
	for _, inst := range slices.Clone(p.Instances) {
		s.RemoveEntity(inst)
	}
	s.prefabs.Remove(id)
	return true
}

// Clear removes all entities, prefabs, components and pending draws.
func (s *Scene) Clear() {
	s.tree.Clear()
	s.entities.Clear()
	s.owners.Clear()
	s.prefabs.Clear()
	s.renderObjects = s.renderObjects[:0]
	s.transients = s.transients[:0]
	s.items = s.items[:0]
	for _, c := range s.components {
		c.clear()
	}
}

// SetTransform replaces id's local transform. World matrices are brought
// up to date by the next Update.
func (s *Scene) SetTransform(id EntityID, t transform.Transform) bool {
	return s.tree.SetLocal(id, t)
}

// Transform returns id's local transform.
func (s *Scene) Transform(id EntityID) (transform.Transform, bool) {
	return s.tree.Transform(id)
}

// SetParent re-parents id under parent; zero makes id a root. Unknown ids,
// an unchanged parent and parent == id are ignored. Cycles are not
// rejected here; Update breaks them with a warning.
func (s *Scene) SetParent(id, parent EntityID) { s.tree.SetParent(id, parent) }

// Parent returns id's parent, zero for roots.
func (s *Scene) Parent(id EntityID) (EntityID, bool) { return s.tree.Parent(id) }

// Children returns a copy of id's children.
func (s *Scene) Children(id EntityID) []EntityID { return s.tree.Children(id) }

// Entity returns the record for id, or nil. The pointer is invalidated by
// the next insertion.
func (s *Scene) Entity(id EntityID) *Entity { return s.entities.Ptr(id) }

// SetProperties replaces id's instance properties. The world matrix is
// kept; it belongs to the hierarchy.
func (s *Scene) SetProperties(id EntityID, props InstanceProperties) bool {
	e := s.entities.Ptr(id)
	if e == nil {
		return false
	}
	props.Matrix = e.Matrix
	e.InstanceProperties = props
	return true
}

// WorldMatrix returns id's world matrix as of insertion or the last
// Update.
func (s *Scene) WorldMatrix(id EntityID) (mgl32.Mat4, bool) {
	e := s.entities.Ptr(id)
	if e == nil {
		return mgl32.Mat4{}, false
	}
	return e.Matrix, true
}

// Contains reports whether id is a live entity.
func (s *Scene) Contains(id EntityID) bool { return s.tree.Contains(id) }

// Len returns the number of entities, prefab instances included.
func (s *Scene) Len() int { return s.tree.Len() }

// Submit queues transient draws for the next Update only.
func (s *Scene) Submit(cmds ...DrawCommand) {
	for _, cmd := range cmds {
		if e, ok := cmd.normalize(s); ok {
			s.transients = append(s.transients, e)
		}
	}
}
