package resource

import "github.com/go-gl/mathgl/mgl32"

// Uniform record sizes in bytes.
const (
	EntityUniformsSize = 96
	CameraUniformsSize = 64
)

// EntityUniforms is the per-draw record bound at group 2.
//
//	struct Entity {
//	    model:     mat4x4<f32>,
//	    color:     vec4<f32>,
//	    uv_offset: vec2<f32>,
//	    uv_scale:  vec2<f32>,
//	}
type EntityUniforms struct {
	Model    mgl32.Mat4
	Color    mgl32.Vec4
	UVOffset mgl32.Vec2
	UVScale  mgl32.Vec2
}

// AppendBytes appends the 96-byte little-endian encoding of u to buf.
func (u EntityUniforms) AppendBytes(buf []byte) []byte {
	buf = appendFloats(buf, u.Model[:]...)
	buf = appendFloats(buf, u.Color[:]...)
	buf = appendFloats(buf, u.UVOffset[:]...)
	return appendFloats(buf, u.UVScale[:]...)
}

// Bytes returns the 96-byte encoding of u.
func (u EntityUniforms) Bytes() []byte {
	return u.AppendBytes(make([]byte, 0, EntityUniformsSize))
}

// CameraUniforms is the per-frame record bound at group 0.
type CameraUniforms struct {
	ViewProj mgl32.Mat4
}

// Bytes returns the 64-byte encoding of u.
func (u CameraUniforms) Bytes() []byte {
	return appendFloats(make([]byte, 0, CameraUniformsSize), u.ViewProj[:]...)
}

// AlignTo rounds size up to a multiple of alignment. Zero alignment
// returns size unchanged.
func AlignTo(size, alignment uint64) uint64 {
	if alignment == 0 {
		return size
	}
	return (size + alignment - 1) / alignment * alignment
}
