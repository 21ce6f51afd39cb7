// Package atlas maps sprite-sheet cells to entity instance state.
package atlas

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/transform"
)

// Atlas is a texture split into a grid of equally sized tiles, drawn with
// a centered unit quad mesh. Tiles are numbered row by row from the
// top-left cell.
type Atlas struct {
	Mesh       resource.MeshID
	Material   resource.MaterialID
	TileWidth  uint16
	TileHeight uint16
	Columns    uint16
	Rows       uint16
}

// Len returns the number of tiles.
func (a Atlas) Len() int { return int(a.Columns) * int(a.Rows) }

// UVOffsetScale returns the normalized UV rectangle of tile index.
func (a Atlas) UVOffsetScale(index int) (offset, scale mgl32.Vec2) {
	if a.Columns == 0 || a.Rows == 0 {
		return mgl32.Vec2{}, mgl32.Vec2{1, 1}
	}
	x := float32(index % int(a.Columns))
	y := float32(index / int(a.Columns))
	w := 1 / float32(a.Columns)
	h := 1 / float32(a.Rows)
	return mgl32.Vec2{x * w, y * h}, mgl32.Vec2{w, h}
}

// TileSize returns the tile size in pixels.
func (a Atlas) TileSize() mgl32.Vec2 {
	return mgl32.Vec2{float32(a.TileWidth), float32(a.TileHeight)}
}

// InstanceProperties places tile index at position, sized to the tile's
// pixel dimensions times scale.
func (a Atlas) InstanceProperties(index int, position mgl32.Vec3, scale float32) (transform.Transform, scene.InstanceProperties) {
	offset, uvScale := a.UVOffsetScale(index)
	size := a.TileSize().Mul(scale)
	t := transform.FromPositionScale(position, mgl32.Vec3{size[0], size[1], 1})
	props := scene.DefaultInstanceProperties().
		WithMatrix(t.LocalMatrix()).
		WithUVOffsetScale(offset, uvScale)
	return t, props
}

// Draw returns a transient draw command for tile index.
func (a Atlas) Draw(index int, position mgl32.Vec3, scale float32) scene.MeshDraw {
	t, props := a.InstanceProperties(index, position, scale)
	return scene.MeshDraw{Mesh: a.Mesh, Material: a.Material, Transform: t, Properties: props}
}

// Spawn adds tile index to s as a retained entity and returns its ID.
func (a Atlas) Spawn(s *scene.Scene, index int, position mgl32.Vec3, scale float32) scene.EntityID {
	t, props := a.InstanceProperties(index, position, scale)
	e := scene.NewEntity(a.Mesh, a.Material)
	e.InstanceProperties = props
	return s.AddEntity(t, e)
}
