package gpucore

import "github.com/gogpu/gputypes"

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend maintains a mapping
// between IDs and its native objects. IDs are uint64 so any backend handle
// fits, and the zero value is never issued.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture and its default view.
type TextureID uint64

// SamplerID is an opaque handle to a texture sampler.
type SamplerID uint64

// ShaderModuleID is an opaque handle to a shader module.
type ShaderModuleID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineID is an opaque handle to a render pipeline.
type PipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferDesc describes a buffer.
type BufferDesc struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage is a bitmask of gputypes.BufferUsage flags.
	Usage gputypes.BufferUsage
}

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// BytesPerRow returns the tightly packed row pitch for 4-byte texel formats.
func (d TextureDesc) BytesPerRow() uint32 { return d.Width * 4 }

// SamplerDesc describes a texture sampler.
type SamplerDesc struct {
	Label       string
	AddressMode gputypes.AddressMode
	MagFilter   gputypes.FilterMode
	MinFilter   gputypes.FilterMode
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []gputypes.BindGroupLayoutEntry
}

// BindGroupEntry binds one resource. Exactly one of Buffer, Texture or
// Sampler is set.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind (for buffer bindings).
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// With a dynamic offset this is the size of one record, not the buffer.
	Size uint64

	// Texture is the texture whose default view is bound.
	Texture TextureID

	// Sampler is the sampler to bind.
	Sampler SamplerID
}

// BindGroupDesc describes a bind group.
type BindGroupDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the bind group layout.
	Layout BindGroupLayoutID

	// Entries are the resource bindings.
	Entries []BindGroupEntry
}

// ShaderModuleDesc describes a shader module given as WGSL source.
type ShaderModuleDesc struct {
	Label string
	WGSL  string
}

// RenderPipelineDesc describes a render pipeline with a single color target.
type RenderPipelineDesc struct {
	Label string

	Module        ShaderModuleID
	VertexEntry   string
	FragmentEntry string

	// BindGroupLayouts are the layouts of groups 0..n, in order.
	BindGroupLayouts []BindGroupLayoutID

	VertexBuffers []gputypes.VertexBufferLayout
	Primitive     gputypes.PrimitiveState

	ColorFormat gputypes.TextureFormat
	// Blend is nil for opaque replace.
	Blend *gputypes.BlendState

	// DepthFormat of TextureFormatUndefined disables depth testing.
	DepthFormat gputypes.TextureFormat
	DepthWrite  bool
}

// FrameDesc describes how a frame's render pass starts.
type FrameDesc struct {
	Label      string
	ClearColor gputypes.Color
}
