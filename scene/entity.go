package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/hierarchy"
	"github.com/gogpu/g3d/resource"
)

// EntityID identifies an entity. It is the id of the entity's node in the
// scene hierarchy. Zero means none.
type EntityID = hierarchy.NodeID

// InstanceProperties is the per-draw state written to the entity uniform.
//
// Matrix is the world matrix. For entities stored in a Scene it is
// overwritten from the transform hierarchy on every Update.
type InstanceProperties struct {
	Matrix   mgl32.Mat4
	Color    mgl32.Vec4
	UVOffset mgl32.Vec2
	UVScale  mgl32.Vec2
	Visible  bool
}

// DefaultInstanceProperties returns identity, opaque white, no UV offset,
// unit UV scale and visible.
func DefaultInstanceProperties() InstanceProperties {
	return InstanceProperties{
		Matrix:  mgl32.Ident4(),
		Color:   mgl32.Vec4{1, 1, 1, 1},
		UVScale: mgl32.Vec2{1, 1},
		Visible: true,
	}
}

// WithColor returns p with color c.
func (p InstanceProperties) WithColor(c mgl32.Vec4) InstanceProperties {
	p.Color = c
	return p
}

// WithMatrix returns p with world matrix m.
func (p InstanceProperties) WithMatrix(m mgl32.Mat4) InstanceProperties {
	p.Matrix = m
	return p
}

// WithUVOffsetScale returns p sampling the texture sub-rectangle at
// offset with size scale, both in normalized UV units.
func (p InstanceProperties) WithUVOffsetScale(offset, scale mgl32.Vec2) InstanceProperties {
	p.UVOffset = offset
	p.UVScale = scale
	return p
}

// WithVisible returns p with visibility v.
func (p InstanceProperties) WithVisible(v bool) InstanceProperties {
	p.Visible = v
	return p
}

// Entity is a drawable: geometry, material and instance state.
type Entity struct {
	Mesh     resource.MeshID
	Material resource.MaterialID
	InstanceProperties
}

// NewEntity returns an entity with default instance properties.
func NewEntity(mesh resource.MeshID, material resource.MaterialID) Entity {
	return Entity{Mesh: mesh, Material: material, InstanceProperties: DefaultInstanceProperties()}
}

// Uniforms returns the entity's uniform record.
func (e *Entity) Uniforms() resource.EntityUniforms {
	return resource.EntityUniforms{
		Model:    e.Matrix,
		Color:    e.Color,
		UVOffset: e.UVOffset,
		UVScale:  e.UVScale,
	}
}

// Position returns the world-space origin of the entity.
func (e *Entity) Position() mgl32.Vec3 {
	return e.Matrix.Col(3).Vec3()
}
