package recording

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one gpucore.Backend or RenderPass call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateBuffer          CommandType = iota // Create a buffer
	CmdWriteBuffer                              // Write bytes into a buffer
	CmdCreateTexture                            // Create a texture
	CmdCreateSampler                            // Create a sampler
	CmdCreateBindGroupLayout                    // Create a bind group layout
	CmdCreateBindGroup                          // Create a bind group
	CmdCreateShaderModule                       // Create a shader module
	CmdCreatePipeline                           // Create a render pipeline
	CmdDestroy                                  // Destroy any resource

	// Frame commands
	CmdBeginFrame      // Begin a frame and its render pass
	CmdSetPipeline     // Bind a render pipeline
	CmdSetBindGroup    // Bind a bind group with dynamic offsets
	CmdSetVertexBuffer // Bind a vertex buffer
	CmdSetIndexBuffer  // Bind an index buffer
	CmdDrawIndexed     // Issue an indexed draw
	CmdEndFrame        // End the render pass and submit
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdCreateBuffer:          "CreateBuffer",
	CmdWriteBuffer:           "WriteBuffer",
	CmdCreateTexture:         "CreateTexture",
	CmdCreateSampler:         "CreateSampler",
	CmdCreateBindGroupLayout: "CreateBindGroupLayout",
	CmdCreateBindGroup:       "CreateBindGroup",
	CmdCreateShaderModule:    "CreateShaderModule",
	CmdCreatePipeline:        "CreatePipeline",
	CmdDestroy:               "Destroy",
	CmdBeginFrame:            "BeginFrame",
	CmdSetPipeline:           "SetPipeline",
	CmdSetBindGroup:          "SetBindGroup",
	CmdSetVertexBuffer:       "SetVertexBuffer",
	CmdSetIndexBuffer:        "SetIndexBuffer",
	CmdDrawIndexed:           "DrawIndexed",
	CmdEndFrame:              "EndFrame",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// ResourceKind names the resource a DestroyCommand released.
type ResourceKind uint8

// Resource kinds.
const (
	KindBuffer ResourceKind = iota
	KindTexture
	KindSampler
	KindBindGroupLayout
	KindBindGroup
	KindShaderModule
	KindPipeline
)

// --------------------------------------------------------------------------
// Resource Commands
// --------------------------------------------------------------------------

// CreateBufferCommand records a buffer allocation.
type CreateBufferCommand struct {
	ID   gpucore.BufferID
	Desc gpucore.BufferDesc
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// WriteBufferCommand records an upload. Only the range is kept; the bytes
// land in the buffer's backing store.
type WriteBufferCommand struct {
	ID     gpucore.BufferID
	Offset uint64
	Size   int
}

// Type implements Command.
func (WriteBufferCommand) Type() CommandType { return CmdWriteBuffer }

// CreateTextureCommand records a texture allocation.
type CreateTextureCommand struct {
	ID   gpucore.TextureID
	Desc gpucore.TextureDesc
}

// Type implements Command.
func (CreateTextureCommand) Type() CommandType { return CmdCreateTexture }

// CreateSamplerCommand records a sampler allocation.
type CreateSamplerCommand struct {
	ID   gpucore.SamplerID
	Desc gpucore.SamplerDesc
}

// Type implements Command.
func (CreateSamplerCommand) Type() CommandType { return CmdCreateSampler }

// CreateBindGroupLayoutCommand records a layout allocation.
type CreateBindGroupLayoutCommand struct {
	ID   gpucore.BindGroupLayoutID
	Desc gpucore.BindGroupLayoutDesc
}

// Type implements Command.
func (CreateBindGroupLayoutCommand) Type() CommandType { return CmdCreateBindGroupLayout }

// CreateBindGroupCommand records a bind group allocation.
type CreateBindGroupCommand struct {
	ID   gpucore.BindGroupID
	Desc gpucore.BindGroupDesc
}

// Type implements Command.
func (CreateBindGroupCommand) Type() CommandType { return CmdCreateBindGroup }

// CreateShaderModuleCommand records a shader module allocation.
type CreateShaderModuleCommand struct {
	ID    gpucore.ShaderModuleID
	Label string
}

// Type implements Command.
func (CreateShaderModuleCommand) Type() CommandType { return CmdCreateShaderModule }

// CreatePipelineCommand records a render pipeline allocation.
type CreatePipelineCommand struct {
	ID   gpucore.PipelineID
	Desc gpucore.RenderPipelineDesc
}

// Type implements Command.
func (CreatePipelineCommand) Type() CommandType { return CmdCreatePipeline }

// DestroyCommand records the release of any resource.
type DestroyCommand struct {
	Kind ResourceKind
	ID   uint64
}

// Type implements Command.
func (DestroyCommand) Type() CommandType { return CmdDestroy }

// --------------------------------------------------------------------------
// Frame Commands
// --------------------------------------------------------------------------

// BeginFrameCommand opens frame number Frame.
type BeginFrameCommand struct {
	Frame      int
	ClearColor gputypes.Color
}

// Type implements Command.
func (BeginFrameCommand) Type() CommandType { return CmdBeginFrame }

// SetPipelineCommand binds a pipeline.
type SetPipelineCommand struct {
	Pipeline gpucore.PipelineID
}

// Type implements Command.
func (SetPipelineCommand) Type() CommandType { return CmdSetPipeline }

// SetBindGroupCommand binds a group at Index.
type SetBindGroupCommand struct {
	Index   uint32
	Group   gpucore.BindGroupID
	Offsets []uint32
}

// Type implements Command.
func (SetBindGroupCommand) Type() CommandType { return CmdSetBindGroup }

// SetVertexBufferCommand binds a vertex buffer to Slot.
type SetVertexBufferCommand struct {
	Slot   uint32
	Buffer gpucore.BufferID
	Offset uint64
}

// Type implements Command.
func (SetVertexBufferCommand) Type() CommandType { return CmdSetVertexBuffer }

// SetIndexBufferCommand binds the index buffer.
type SetIndexBufferCommand struct {
	Buffer gpucore.BufferID
	Format gputypes.IndexFormat
	Offset uint64
}

// Type implements Command.
func (SetIndexBufferCommand) Type() CommandType { return CmdSetIndexBuffer }

// DrawIndexedCommand issues an indexed draw.
type DrawIndexedCommand struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Type implements Command.
func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

// EndFrameCommand closes frame number Frame.
type EndFrameCommand struct {
	Frame int
}

// Type implements Command.
func (EndFrameCommand) Type() CommandType { return CmdEndFrame }
