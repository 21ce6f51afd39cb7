package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// Bind group indices shared by every shader.
const (
	GroupCamera   = 0
	GroupMaterial = 1
	GroupEntity   = 2
)

// ShaderDesc describes a shader and the pipeline built from it.
type ShaderDesc struct {
	Label string
	// Source is WGSL following the package bind group contract.
	Source string

	// VertexEntry and FragmentEntry default to vs_main and fs_main.
	VertexEntry   string
	FragmentEntry string

	// Blend is nil for opaque output.
	Blend *gputypes.BlendState
	// RequiresOrdering marks shaders whose draws are depth sorted back to
	// front. Such pipelines test depth but do not write it.
	RequiresOrdering bool

	// ColorFormat defaults to BGRA8Unorm.
	ColorFormat gputypes.TextureFormat
	// DepthFormat of Undefined disables depth testing.
	DepthFormat gputypes.TextureFormat
}

// Shader is a render pipeline plus the per-shader camera and entity
// uniform storage.
type Shader struct {
	Label            string
	Module           gpucore.ShaderModuleID
	Pipeline         gpucore.PipelineID
	RequiresOrdering bool

	CameraLayout   gpucore.BindGroupLayoutID
	MaterialLayout gpucore.BindGroupLayoutID
	EntityLayout   gpucore.BindGroupLayoutID

	Camera   *CameraBinding
	Entities *EntityUniformStore
}

// CameraLayoutEntries returns the group 0 layout.
func CameraLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: CameraUniformsSize,
		},
	}}
}

// MaterialLayoutEntries returns the group 1 layout.
func MaterialLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// EntityLayoutEntries returns the group 2 layout.
func EntityLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStagesVertexFragment,
		Buffer: &gputypes.BufferBindingLayout{
			Type:             gputypes.BufferBindingTypeUniform,
			HasDynamicOffset: true,
			MinBindingSize:   EntityUniformsSize,
		},
	}}
}

// NewShader compiles desc.Source and creates its layouts, pipeline and
// uniform storage. Partially created objects are released on error.
func NewShader(b gpucore.Backend, desc ShaderDesc) (sh Shader, err error) {
	if desc.VertexEntry == "" {
		desc.VertexEntry = "vs_main"
	}
	if desc.FragmentEntry == "" {
		desc.FragmentEntry = "fs_main"
	}
	if desc.ColorFormat == gputypes.TextureFormatUndefined {
		desc.ColorFormat = gputypes.TextureFormatBGRA8Unorm
	}

	sh = Shader{Label: desc.Label, RequiresOrdering: desc.RequiresOrdering}
	defer func() {
		if err != nil {
			sh.Destroy(b)
			sh = Shader{}
		}
	}()

	if sh.Module, err = b.CreateShaderModule(gpucore.ShaderModuleDesc{Label: desc.Label, WGSL: desc.Source}); err != nil {
		return sh, fmt.Errorf("shader %q: module: %w", desc.Label, err)
	}
	if sh.CameraLayout, err = b.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{
		Label: desc.Label + " camera layout", Entries: CameraLayoutEntries(),
	}); err != nil {
		return sh, fmt.Errorf("shader %q: camera layout: %w", desc.Label, err)
	}
	if sh.MaterialLayout, err = b.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{
		Label: desc.Label + " material layout", Entries: MaterialLayoutEntries(),
	}); err != nil {
		return sh, fmt.Errorf("shader %q: material layout: %w", desc.Label, err)
	}
	if sh.EntityLayout, err = b.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{
		Label: desc.Label + " entity layout", Entries: EntityLayoutEntries(),
	}); err != nil {
		return sh, fmt.Errorf("shader %q: entity layout: %w", desc.Label, err)
	}

	if sh.Pipeline, err = b.CreateRenderPipeline(gpucore.RenderPipelineDesc{
		Label:            desc.Label,
		Module:           sh.Module,
		VertexEntry:      desc.VertexEntry,
		FragmentEntry:    desc.FragmentEntry,
		BindGroupLayouts: []gpucore.BindGroupLayoutID{sh.CameraLayout, sh.MaterialLayout, sh.EntityLayout},
		VertexBuffers:    []gputypes.VertexBufferLayout{VertexLayout()},
		ColorFormat:      desc.ColorFormat,
		Blend:            desc.Blend,
		DepthFormat:      desc.DepthFormat,
		DepthWrite:       !desc.RequiresOrdering,
	}); err != nil {
		return sh, fmt.Errorf("shader %q: pipeline: %w", desc.Label, err)
	}

	if sh.Camera, err = NewCameraBinding(b, desc.Label, sh.CameraLayout); err != nil {
		return sh, err
	}
	if sh.Entities, err = NewEntityUniformStore(b, desc.Label, sh.EntityLayout); err != nil {
		return sh, err
	}
	return sh, nil
}

// Destroy releases everything NewShader created. Zero fields are skipped.
func (s Shader) Destroy(b gpucore.Backend) {
	if s.Entities != nil {
		s.Entities.Destroy(b)
	}
	if s.Camera != nil {
		s.Camera.Destroy(b)
	}
	b.DestroyRenderPipeline(s.Pipeline)
	b.DestroyBindGroupLayout(s.EntityLayout)
	b.DestroyBindGroupLayout(s.MaterialLayout)
	b.DestroyBindGroupLayout(s.CameraLayout)
	b.DestroyShaderModule(s.Module)
}
