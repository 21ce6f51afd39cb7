package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Projection is Perspective or Orthographic.
type Projection interface {
	matrix(aspect float32) mgl32.Mat4
}

// Perspective is a right-handed perspective projection. FovY is the
// vertical field of view in radians.
type Perspective struct {
	FovY, Near, Far float32
}

func (p Perspective) matrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, aspect, p.Near, p.Far)
}

// Orthographic is a centered orthographic projection Height units tall;
// its width follows the camera aspect ratio.
type Orthographic struct {
	Height, Near, Far float32
}

func (o Orthographic) matrix(aspect float32) mgl32.Mat4 {
	hh := o.Height / 2
	hw := hh * aspect
	return mgl32.Ortho(-hw, hw, -hh, hh, o.Near, o.Far)
}

// glToWGPU maps OpenGL clip depth [-1, 1] to WebGPU's [0, 1].
var glToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is a look-at camera. The view is right-handed, so the camera
// looks down its local -Z axis.
type Camera struct {
	Eye, Target, Up mgl32.Vec3
	Projection      Projection
	// Aspect is width / height.
	Aspect float32
	// PixelRatio scales world units before projection; zero means 1.
	PixelRatio float32
	ClearColor gputypes.Color
}

// DefaultCamera looks from (0, 0, 2) at the origin with a 60° perspective.
func DefaultCamera() Camera {
	return Camera{
		Eye:        mgl32.Vec3{0, 0, 2},
		Up:         mgl32.Vec3{0, 1, 0},
		Projection: Perspective{FovY: mgl32.DegToRad(60), Near: 0.01, Far: 1000},
		Aspect:     1,
		PixelRatio: 1,
		ClearColor: gputypes.ColorBlack,
	}
}

// View returns the world-to-view matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns the OpenGL-convention projection matrix.
func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	p := c.Projection
	if p == nil {
		p = DefaultCamera().Projection
	}
	return p.matrix(aspect)
}

// ViewProjection returns the matrix written to the camera uniform, with
// depth remapped to WebGPU clip space.
func (c Camera) ViewProjection() mgl32.Mat4 {
	vp := glToWGPU.Mul4(c.ProjectionMatrix()).Mul4(c.View())
	if c.PixelRatio != 0 && c.PixelRatio != 1 {
		vp = vp.Mul4(mgl32.Scale3D(c.PixelRatio, c.PixelRatio, c.PixelRatio))
	}
	return vp
}

// ViewSpace transforms a world-space point into view space.
func (c Camera) ViewSpace(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, c.View())
}
