package scene

import (
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/transform"
)

// DrawCommand is a transient drawable submitted for one frame.
// It is one of MeshDraw, PrefabDraw or EntityDraw.
type DrawCommand interface {
	normalize(s *Scene) (Entity, bool)
}

// MeshDraw draws a mesh with a material at a world transform.
// A zero Properties means DefaultInstanceProperties.
type MeshDraw struct {
	Mesh       resource.MeshID
	Material   resource.MaterialID
	Transform  transform.Transform
	Properties InstanceProperties
}

func (d MeshDraw) normalize(*Scene) (Entity, bool) {
	return Entity{
		Mesh:               d.Mesh,
		Material:           d.Material,
		InstanceProperties: placed(d.Properties, d.Transform),
	}, true
}

// PrefabDraw draws a prefab's mesh and material at a world transform.
// A zero Properties means DefaultInstanceProperties.
type PrefabDraw struct {
	Prefab     PrefabID
	Transform  transform.Transform
	Properties InstanceProperties
}

func (d PrefabDraw) normalize(s *Scene) (Entity, bool) {
	p, ok := s.prefabs.Get(d.Prefab)
	if !ok {
		slogger().Debug("scene: draw of unknown prefab skipped", "prefab", d.Prefab)
		return Entity{}, false
	}
	return Entity{
		Mesh:               p.Mesh,
		Material:           p.Material,
		InstanceProperties: placed(d.Properties, d.Transform),
	}, true
}

// EntityDraw draws a fully formed entity; its Matrix is the world matrix.
// A zero InstanceProperties means DefaultInstanceProperties.
type EntityDraw struct {
	Entity Entity
}

func (d EntityDraw) normalize(*Scene) (Entity, bool) {
	e := d.Entity
	if e.InstanceProperties == (InstanceProperties{}) {
		e.InstanceProperties = DefaultInstanceProperties()
	}
	return e, true
}

func placed(p InstanceProperties, t transform.Transform) InstanceProperties {
	if p == (InstanceProperties{}) {
		p = DefaultInstanceProperties()
	}
	p.Matrix = t.LocalMatrix()
	return p
}

// Normalize converts cmd into the entity record that Update batches.
// It reports false for commands that reference an unknown prefab.
func (s *Scene) Normalize(cmd DrawCommand) (Entity, bool) {
	return cmd.normalize(s)
}
