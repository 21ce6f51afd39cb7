package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/resource"
)

// cubeFaces lists each face as its outward normal and the two in-plane
// axes (right, up) seen from outside, so corners wind counter-clockwise.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},   // +Z
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}}, // -Z
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // +X
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // -X
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},  // +Y
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},  // -Y
}

// Cube returns a centered unit cube with 24 vertices, so every face maps
// the full texture.
func Cube() resource.MeshData {
	positions := make([]mgl32.Vec3, 0, 24)
	uvs := make([]mgl32.Vec2, 0, 24)
	for _, f := range cubeFaces {
		normal, right, up := f[0].Mul(0.5), f[1], f[2]
		for _, c := range quadPositions {
			positions = append(positions, normal.Add(right.Mul(c[0])).Add(up.Mul(c[1])))
		}
		uvs = append(uvs, quadUVs[:]...)
	}
	return Batch(positions, uvs)
}
