package scene

import "github.com/gogpu/g3d/resource"

// PrefabID identifies a Prefab. Zero means none.
type PrefabID uint64

// Prefab is a mesh and material shared by many instances. Instances are
// drawn together, so they rebind neither mesh nor material.
type Prefab struct {
	Mesh      resource.MeshID
	Material  resource.MaterialID
	Instances []EntityID
}
