// Package primitives builds mesh data for common shapes.
//
// All shapes are centered on the origin with unit extent. UV origin is the
// top-left texel, so the bottom edge of a quad samples v = 1.
package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/resource"
)

var (
	quadPositions = [4]mgl32.Vec3{
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0.5, 0.5, 0},
		{-0.5, 0.5, 0},
	}
	quadUVs = [4]mgl32.Vec2{
		{0, 1},
		{1, 1},
		{1, 0},
		{0, 0},
	}
	quadIndices = [6]uint16{0, 1, 2, 0, 2, 3}
)

// Quad returns a centered 1x1 quad in the XY plane facing +Z.
func Quad() resource.MeshData {
	return resource.MeshData{
		Positions: quadPositions[:],
		UVs:       quadUVs[:],
		Indices:   quadIndices[:],
	}
}

// QuadWithOffsetScale returns a width x height quad whose center is moved
// by offset in the XY plane.
func QuadWithOffsetScale(width, height float32, offset mgl32.Vec2) resource.MeshData {
	return resource.MeshData{
		Positions: QuadPositions(width, height, offset),
		UVs:       quadUVs[:],
		Indices:   quadIndices[:],
	}
}

// QuadPositions returns the four corners of a width x height quad moved by
// offset, in the same order as Quad.
func QuadPositions(width, height float32, offset mgl32.Vec2) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(quadPositions))
	for i, p := range quadPositions {
		out[i] = mgl32.Vec3{width*p[0] + offset[0], height*p[1] + offset[1], p[2]}
	}
	return out
}

// QuadUVs returns quad UVs mapped into the sub-rectangle at offset with
// size scale.
func QuadUVs(offset, scale mgl32.Vec2) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(quadUVs))
	for i, uv := range quadUVs {
		out[i] = mgl32.Vec2{offset[0] + scale[0]*uv[0], offset[1] + scale[1]*uv[1]}
	}
	return out
}

// ExtendIndices appends the six quad indices shifted by offset, for
// batching several quads into one mesh.
func ExtendIndices(indices []uint16, offset uint16) []uint16 {
	for _, i := range quadIndices {
		indices = append(indices, i+offset)
	}
	return indices
}

// Batch merges quads into one mesh. Each quad contributes four vertices
// from positions and uvs, which must have equal length divisible by 4.
func Batch(positions []mgl32.Vec3, uvs []mgl32.Vec2) resource.MeshData {
	n := len(positions) / 4
	indices := make([]uint16, 0, n*len(quadIndices))
	for q := 0; q < n; q++ {
		indices = ExtendIndices(indices, uint16(q*4))
	}
	return resource.MeshData{Positions: positions, UVs: uvs, Indices: indices}
}
