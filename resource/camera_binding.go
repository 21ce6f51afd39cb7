package resource

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// CameraBinding is a shader's group 0 camera uniform.
type CameraBinding struct {
	buffer    gpucore.BufferID
	bindGroup gpucore.BindGroupID
}

// NewCameraBinding allocates the camera uniform and its bind group.
func NewCameraBinding(b gpucore.Backend, label string, layout gpucore.BindGroupLayoutID) (*CameraBinding, error) {
	buf, err := b.CreateBuffer(gpucore.BufferDesc{
		Label: label + " camera uniform",
		Size:  CameraUniformsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("camera binding %q: %w", label, err)
	}
	group, err := b.CreateBindGroup(gpucore.BindGroupDesc{
		Label:   label + " camera bind group",
		Layout:  layout,
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: buf, Size: CameraUniformsSize}},
	})
	if err != nil {
		b.DestroyBuffer(buf)
		return nil, fmt.Errorf("camera binding %q: %w", label, err)
	}
	return &CameraBinding{buffer: buf, bindGroup: group}, nil
}

// Update writes the view-projection matrix.
func (c *CameraBinding) Update(b gpucore.Backend, viewProj mgl32.Mat4) error {
	return b.WriteBuffer(c.buffer, 0, CameraUniforms{ViewProj: viewProj}.Bytes())
}

// Buffer returns the uniform buffer.
func (c *CameraBinding) Buffer() gpucore.BufferID { return c.buffer }

// BindGroup returns the group 0 bind group.
func (c *CameraBinding) BindGroup() gpucore.BindGroupID { return c.bindGroup }

// Destroy releases the buffer and bind group.
func (c *CameraBinding) Destroy(b gpucore.Backend) {
	b.DestroyBindGroup(c.bindGroup)
	b.DestroyBuffer(c.buffer)
}
