package resource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// VertexStride is the byte size of one interleaved vertex: position
// (3 × f32) followed by UV (2 × f32).
const VertexStride = 20

// ErrEmptyMesh is returned by NewMesh for data without indices.
var ErrEmptyMesh = errors.New("resource: mesh has no indices")

// MeshData is CPU-side indexed triangle geometry.
// UVs is either empty or the same length as Positions.
type MeshData struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint16
}

// Validate checks that indices reference existing vertices.
func (d MeshData) Validate() error {
	if len(d.Indices) == 0 {
		return ErrEmptyMesh
	}
	if len(d.Indices)%3 != 0 {
		return fmt.Errorf("resource: mesh index count %d is not a multiple of 3", len(d.Indices))
	}
	if len(d.UVs) != 0 && len(d.UVs) != len(d.Positions) {
		return fmt.Errorf("resource: mesh has %d uvs for %d positions", len(d.UVs), len(d.Positions))
	}
	for i, idx := range d.Indices {
		if int(idx) >= len(d.Positions) {
			return fmt.Errorf("resource: mesh index %d at %d out of range (%d vertices)", idx, i, len(d.Positions))
		}
	}
	return nil
}

// VertexBytes returns the interleaved little-endian vertex stream.
func (d MeshData) VertexBytes() []byte {
	buf := make([]byte, 0, len(d.Positions)*VertexStride)
	for i, p := range d.Positions {
		var uv mgl32.Vec2
		if len(d.UVs) != 0 {
			uv = d.UVs[i]
		}
		buf = appendFloats(buf, p[0], p[1], p[2], uv[0], uv[1])
	}
	return buf
}

// IndexBytes returns the uint16 index stream padded to a multiple of four
// bytes, as buffer writes require.
func (d MeshData) IndexBytes() []byte {
	buf := make([]byte, 0, len(d.Indices)*2+2)
	for _, idx := range d.Indices {
		buf = binary.LittleEndian.AppendUint16(buf, idx)
	}
	if len(buf)%4 != 0 {
		buf = append(buf, 0, 0)
	}
	return buf
}

// VertexLayout describes the vertex stream produced by VertexBytes.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// Mesh is geometry uploaded to vertex and index buffers.
type Mesh struct {
	Label        string
	VertexBuffer gpucore.BufferID
	IndexBuffer  gpucore.BufferID
	IndexCount   uint32
}

// NewMesh validates data and uploads it.
func NewMesh(b gpucore.Backend, label string, data MeshData) (Mesh, error) {
	if err := data.Validate(); err != nil {
		return Mesh{}, fmt.Errorf("mesh %q: %w", label, err)
	}

	vertices := data.VertexBytes()
	vb, err := b.CreateBuffer(gpucore.BufferDesc{
		Label: label + " vertices",
		Size:  uint64(len(vertices)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh %q: vertex buffer: %w", label, err)
	}
	if err := b.WriteBuffer(vb, 0, vertices); err != nil {
		b.DestroyBuffer(vb)
		return Mesh{}, fmt.Errorf("mesh %q: upload vertices: %w", label, err)
	}

	indices := data.IndexBytes()
	ib, err := b.CreateBuffer(gpucore.BufferDesc{
		Label: label + " indices",
		Size:  uint64(len(indices)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		b.DestroyBuffer(vb)
		return Mesh{}, fmt.Errorf("mesh %q: index buffer: %w", label, err)
	}
	if err := b.WriteBuffer(ib, 0, indices); err != nil {
		b.DestroyBuffer(vb)
		b.DestroyBuffer(ib)
		return Mesh{}, fmt.Errorf("mesh %q: upload indices: %w", label, err)
	}

	return Mesh{
		Label:        label,
		VertexBuffer: vb,
		IndexBuffer:  ib,
		IndexCount:   uint32(len(data.Indices)),
	}, nil
}

// Destroy releases the mesh buffers.
func (m Mesh) Destroy(b gpucore.Backend) {
	b.DestroyBuffer(m.VertexBuffer)
	b.DestroyBuffer(m.IndexBuffer)
}

func appendFloats(buf []byte, fs ...float32) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
