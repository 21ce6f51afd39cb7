package gpucore

import (
	"context"

	"github.com/gogpu/gputypes"
)

// Backend abstracts over GPU implementations.
//
// Implementations translate between opaque IDs and their native objects. A
// Backend is used from a single goroutine: the frame loop creates
// resources, records one frame at a time, and never overlaps frames.
type Backend interface {
	// === Capabilities ===

	// Name returns a short backend identifier used in logs.
	Name() string

	// Limits returns the device limits. MinUniformBufferOffsetAlignment
	// determines the stride of dynamic-offset uniform records.
	Limits() gputypes.Limits

	// === Buffer Management ===

	// CreateBuffer creates a GPU buffer.
	CreateBuffer(desc BufferDesc) (BufferID, error)

	// WriteBuffer copies data into a buffer at the given byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// === Texture Management ===

	// CreateTexture creates a 2D texture and uploads texels if non-nil.
	CreateTexture(desc TextureDesc, texels []byte) (TextureID, error)

	// DestroyTexture releases a texture and its view.
	DestroyTexture(id TextureID)

	// CreateSampler creates a texture sampler.
	CreateSampler(desc SamplerDesc) (SamplerID, error)

	// DestroySampler releases a sampler.
	DestroySampler(id SamplerID)

	// === Binding ===

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreateBindGroup creates a bind group.
	CreateBindGroup(desc BindGroupDesc) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)

	// === Pipelines ===

	// CreateShaderModule creates a shader module from WGSL.
	CreateShaderModule(desc ShaderModuleDesc) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(desc RenderPipelineDesc) (PipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id PipelineID)

	// === Frames ===

	// BeginFrame starts a frame and returns its render pass.
	// Returns ErrFrameInProgress if the previous frame was not ended.
	BeginFrame(ctx context.Context, desc FrameDesc) (RenderPass, error)

	// EndFrame ends the pass returned by BeginFrame and submits the frame.
	EndFrame(pass RenderPass) error

	// Destroy releases every resource owned by the backend.
	Destroy()
}

// RenderPass records draw commands for one frame.
type RenderPass interface {
	SetPipeline(id PipelineID)
	SetBindGroup(index uint32, group BindGroupID, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buf BufferID, offset uint64)
	SetIndexBuffer(buf BufferID, format gputypes.IndexFormat, offset uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}
