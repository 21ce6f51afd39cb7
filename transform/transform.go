// Package transform provides the local position/rotation/scale value type
// shared by the hierarchy and scene packages.
//
// Matrices follow mgl32 conventions: column-major storage and column
// vectors, so a local matrix is Translate * Rotate * Scale and a world
// matrix is parentWorld * local.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local TRS transform. It is a plain value; copy it freely.
//
// The zero value has zero scale and a zero quaternion and is not a usable
// transform. Start from Identity or one of the constructors.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// New returns a transform from explicit components.
func New(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// FromPosition returns a pure translation.
func FromPosition(p mgl32.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// FromPositionScale returns a translation with a non-uniform scale.
func FromPositionScale(p, s mgl32.Vec3) Transform {
	t := Identity()
	t.Position = p
	t.Scale = s
	return t
}

// FromPositionRotation returns a translation with a rotation.
func FromPositionRotation(p mgl32.Vec3, r mgl32.Quat) Transform {
	t := Identity()
	t.Position = p
	t.Rotation = r
	return t
}

// FromEulerDegrees returns a rotation built from XYZ Euler angles in degrees.
func FromEulerDegrees(x, y, z float32) mgl32.Quat {
	return mgl32.AnglesToQuat(mgl32.DegToRad(x), mgl32.DegToRad(y), mgl32.DegToRad(z), mgl32.XYZ)
}

// FromMatrix decomposes an affine matrix without shear into a Transform.
// Negative scale is folded into the rotation and cannot be recovered.
func FromMatrix(m mgl32.Mat4) Transform {
	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	s := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}

	rot := mgl32.Ident4()
	if s[0] != 0 && s[1] != 0 && s[2] != 0 {
		rot.SetCol(0, c0.Mul(1/s[0]).Vec4(0))
		rot.SetCol(1, c1.Mul(1/s[1]).Vec4(0))
		rot.SetCol(2, c2.Mul(1/s[2]).Vec4(0))
	}
	return Transform{
		Position: m.Col(3).Vec3(),
		Rotation: mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:    s,
	}
}

// LocalMatrix returns Translate * Rotate * Scale.
func (t Transform) LocalMatrix() mgl32.Mat4 {
	m := t.Rotation.Mat4()
	for i := 0; i < 3; i++ {
		m[i*4+0] *= t.Scale[i]
		m[i*4+1] *= t.Scale[i]
		m[i*4+2] *= t.Scale[i]
	}
	m[12] = t.Position[0]
	m[13] = t.Position[1]
	m[14] = t.Position[2]
	return m
}

// Translated returns a copy moved by d.
func (t Transform) Translated(d mgl32.Vec3) Transform {
	t.Position = t.Position.Add(d)
	return t
}

// Rotated returns a copy with q applied after the current rotation.
func (t Transform) Rotated(q mgl32.Quat) Transform {
	t.Rotation = q.Mul(t.Rotation).Normalize()
	return t
}

// WithScale returns a copy with scale s.
func (t Transform) WithScale(s mgl32.Vec3) Transform {
	t.Scale = s
	return t
}

// ApproxEqual reports whether two transforms produce matching matrices.
func (t Transform) ApproxEqual(o Transform, epsilon float32) bool {
	return t.LocalMatrix().ApproxEqualThreshold(o.LocalMatrix(), epsilon)
}

// IsFinite reports whether every component is a finite number.
func (t Transform) IsFinite() bool {
	for _, v := range [...]float32{
		t.Position[0], t.Position[1], t.Position[2],
		t.Rotation.W, t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2],
		t.Scale[0], t.Scale[1], t.Scale[2],
	} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
