package recording

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// Backend is an in-memory gpucore.Backend that records every call.
//
// Buffers keep their bytes so tests can read back uploaded uniform data.
// Pass commands that reference unknown resources are recorded anyway and
// reported as an error from EndFrame, mirroring GPU validation.
type Backend struct {
	limits gputypes.Limits
	nextID uint64

	buffers   map[gpucore.BufferID][]byte
	textures  map[gpucore.TextureID]gpucore.TextureDesc
	samplers  map[gpucore.SamplerID]gpucore.SamplerDesc
	layouts   map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc
	groups    map[gpucore.BindGroupID]gpucore.BindGroupDesc
	modules   map[gpucore.ShaderModuleID]gpucore.ShaderModuleDesc
	pipelines map[gpucore.PipelineID]gpucore.RenderPipelineDesc

	commands   []Command
	frames     [][]Command
	pass       *Pass
	frameCount int
	frameErrs  []error
	destroyed  bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLimits overrides the reported device limits.
func WithLimits(l gputypes.Limits) Option {
	return func(b *Backend) { b.limits = l }
}

// WithFrameErrors queues errors returned by successive BeginFrame calls.
// A nil entry lets that frame succeed.
func WithFrameErrors(errs ...error) Option {
	return func(b *Backend) { b.frameErrs = append(b.frameErrs, errs...) }
}

// New returns an empty recording backend with default limits.
func New(opts ...Option) *Backend {
	b := &Backend{
		limits:    gputypes.DefaultLimits(),
		buffers:   make(map[gpucore.BufferID][]byte),
		textures:  make(map[gpucore.TextureID]gpucore.TextureDesc),
		samplers:  make(map[gpucore.SamplerID]gpucore.SamplerDesc),
		layouts:   make(map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc),
		groups:    make(map[gpucore.BindGroupID]gpucore.BindGroupDesc),
		modules:   make(map[gpucore.ShaderModuleID]gpucore.ShaderModuleDesc),
		pipelines: make(map[gpucore.PipelineID]gpucore.RenderPipelineDesc),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements gpucore.Backend.
func (b *Backend) Name() string { return "recording" }

// Limits implements gpucore.Backend.
func (b *Backend) Limits() gputypes.Limits { return b.limits }

func (b *Backend) id() uint64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) record(c Command) {
	b.commands = append(b.commands, c)
	if b.pass != nil {
		b.frames[len(b.frames)-1] = append(b.frames[len(b.frames)-1], c)
	}
}

// CreateBuffer implements gpucore.Backend.
func (b *Backend) CreateBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: buffer %q: zero size", desc.Label)
	}
	id := gpucore.BufferID(b.id())
	b.buffers[id] = make([]byte, desc.Size)
	b.record(CreateBufferCommand{ID: id, Desc: desc})
	return id, nil
}

// WriteBuffer implements gpucore.Backend.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	buf, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("recording: write buffer %d: %w", id, gpucore.ErrInvalidID)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("recording: write buffer %d: range [%d, %d) exceeds size %d",
			id, offset, offset+uint64(len(data)), len(buf))
	}
	copy(buf[offset:], data)
	b.record(WriteBufferCommand{ID: id, Offset: offset, Size: len(data)})
	return nil
}

// DestroyBuffer implements gpucore.Backend.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	if _, ok := b.buffers[id]; ok {
		delete(b.buffers, id)
		b.record(DestroyCommand{Kind: KindBuffer, ID: uint64(id)})
	}
}

// CreateTexture implements gpucore.Backend.
func (b *Backend) CreateTexture(desc gpucore.TextureDesc, texels []byte) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: texture %q: zero extent", desc.Label)
	}
	if texels != nil && len(texels) != int(desc.BytesPerRow()*desc.Height) {
		return gpucore.InvalidID, fmt.Errorf("recording: texture %q: got %d texel bytes, want %d",
			desc.Label, len(texels), desc.BytesPerRow()*desc.Height)
	}
	id := gpucore.TextureID(b.id())
	b.textures[id] = desc
	b.record(CreateTextureCommand{ID: id, Desc: desc})
	return id, nil
}

// DestroyTexture implements gpucore.Backend.
func (b *Backend) DestroyTexture(id gpucore.TextureID) {
	if _, ok := b.textures[id]; ok {
		delete(b.textures, id)
		b.record(DestroyCommand{Kind: KindTexture, ID: uint64(id)})
	}
}

// CreateSampler implements gpucore.Backend.
func (b *Backend) CreateSampler(desc gpucore.SamplerDesc) (gpucore.SamplerID, error) {
	id := gpucore.SamplerID(b.id())
	b.samplers[id] = desc
	b.record(CreateSamplerCommand{ID: id, Desc: desc})
	return id, nil
}

// DestroySampler implements gpucore.Backend.
func (b *Backend) DestroySampler(id gpucore.SamplerID) {
	if _, ok := b.samplers[id]; ok {
		delete(b.samplers, id)
		b.record(DestroyCommand{Kind: KindSampler, ID: uint64(id)})
	}
}

// CreateBindGroupLayout implements gpucore.Backend.
func (b *Backend) CreateBindGroupLayout(desc gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	id := gpucore.BindGroupLayoutID(b.id())
	b.layouts[id] = desc
	b.record(CreateBindGroupLayoutCommand{ID: id, Desc: desc})
	return id, nil
}

// DestroyBindGroupLayout implements gpucore.Backend.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	if _, ok := b.layouts[id]; ok {
		delete(b.layouts, id)
		b.record(DestroyCommand{Kind: KindBindGroupLayout, ID: uint64(id)})
	}
}

// CreateBindGroup implements gpucore.Backend. Every referenced resource
// must be live.
func (b *Backend) CreateBindGroup(desc gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	if _, ok := b.layouts[desc.Layout]; !ok {
		return gpucore.InvalidID, fmt.Errorf("recording: bind group %q layout: %w", desc.Label, gpucore.ErrInvalidID)
	}
	for _, e := range desc.Entries {
		if err := b.checkEntry(e); err != nil {
			return gpucore.InvalidID, fmt.Errorf("recording: bind group %q binding %d: %w", desc.Label, e.Binding, err)
		}
	}
	id := gpucore.BindGroupID(b.id())
	b.groups[id] = desc
	b.record(CreateBindGroupCommand{ID: id, Desc: desc})
	return id, nil
}

func (b *Backend) checkEntry(e gpucore.BindGroupEntry) error {
	switch {
	case e.Buffer != gpucore.InvalidID:
		buf, ok := b.buffers[e.Buffer]
		if !ok {
			return gpucore.ErrInvalidID
		}
		if e.Offset+e.Size > uint64(len(buf)) {
			return fmt.Errorf("range [%d, %d) exceeds buffer size %d", e.Offset, e.Offset+e.Size, len(buf))
		}
	case e.Texture != gpucore.InvalidID:
		if _, ok := b.textures[e.Texture]; !ok {
			return gpucore.ErrInvalidID
		}
	case e.Sampler != gpucore.InvalidID:
		if _, ok := b.samplers[e.Sampler]; !ok {
			return gpucore.ErrInvalidID
		}
	default:
		return errors.New("entry binds no resource")
	}
	return nil
}

// DestroyBindGroup implements gpucore.Backend.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	if _, ok := b.groups[id]; ok {
		delete(b.groups, id)
		b.record(DestroyCommand{Kind: KindBindGroup, ID: uint64(id)})
	}
}

// CreateShaderModule implements gpucore.Backend.
func (b *Backend) CreateShaderModule(desc gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if desc.WGSL == "" {
		return gpucore.InvalidID, fmt.Errorf("recording: shader module %q: empty source", desc.Label)
	}
	id := gpucore.ShaderModuleID(b.id())
	b.modules[id] = desc
	b.record(CreateShaderModuleCommand{ID: id, Label: desc.Label})
	return id, nil
}

// DestroyShaderModule implements gpucore.Backend.
func (b *Backend) DestroyShaderModule(id gpucore.ShaderModuleID) {
	if _, ok := b.modules[id]; ok {
		delete(b.modules, id)
		b.record(DestroyCommand{Kind: KindShaderModule, ID: uint64(id)})
	}
}

// CreateRenderPipeline implements gpucore.Backend.
func (b *Backend) CreateRenderPipeline(desc gpucore.RenderPipelineDesc) (gpucore.PipelineID, error) {
	if _, ok := b.modules[desc.Module]; !ok {
		return gpucore.InvalidID, fmt.Errorf("recording: pipeline %q module: %w", desc.Label, gpucore.ErrInvalidID)
	}
	for i, l := range desc.BindGroupLayouts {
		if _, ok := b.layouts[l]; !ok {
			return gpucore.InvalidID, fmt.Errorf("recording: pipeline %q group %d layout: %w", desc.Label, i, gpucore.ErrInvalidID)
		}
	}
	id := gpucore.PipelineID(b.id())
	b.pipelines[id] = desc
	b.record(CreatePipelineCommand{ID: id, Desc: desc})
	return id, nil
}

// DestroyRenderPipeline implements gpucore.Backend.
func (b *Backend) DestroyRenderPipeline(id gpucore.PipelineID) {
	if _, ok := b.pipelines[id]; ok {
		delete(b.pipelines, id)
		b.record(DestroyCommand{Kind: KindPipeline, ID: uint64(id)})
	}
}

// BeginFrame implements gpucore.Backend.
func (b *Backend) BeginFrame(ctx context.Context, desc gpucore.FrameDesc) (gpucore.RenderPass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.destroyed {
		return nil, fmt.Errorf("recording: begin frame: %w", gpucore.ErrDeviceLost)
	}
	if b.pass != nil {
		return nil, gpucore.ErrFrameInProgress
	}
	if len(b.frameErrs) > 0 {
		err := b.frameErrs[0]
		b.frameErrs = b.frameErrs[1:]
		if err != nil {
			return nil, fmt.Errorf("recording: begin frame: %w", err)
		}
	}
	b.pass = &Pass{backend: b}
	b.frames = append(b.frames, nil)
	b.record(BeginFrameCommand{Frame: b.frameCount, ClearColor: desc.ClearColor})
	return b.pass, nil
}

// EndFrame implements gpucore.Backend.
func (b *Backend) EndFrame(pass gpucore.RenderPass) error {
	p, ok := pass.(*Pass)
	if !ok || p == nil || p != b.pass {
		return gpucore.ErrNoFrame
	}
	b.record(EndFrameCommand{Frame: b.frameCount})
	b.pass = nil
	b.frameCount++
	if len(p.errs) > 0 {
		return fmt.Errorf("recording: frame validation: %w", errors.Join(p.errs...))
	}
	return nil
}

// Destroy implements gpucore.Backend.
func (b *Backend) Destroy() {
	clear(b.buffers)
	clear(b.textures)
	clear(b.samplers)
	clear(b.layouts)
	clear(b.groups)
	clear(b.modules)
	clear(b.pipelines)
	b.pass = nil
	b.destroyed = true
}

// Commands returns every command recorded since creation or the last Reset.
func (b *Backend) Commands() []Command { return b.commands }

// Frames returns the commands of each frame, BeginFrame through EndFrame.
func (b *Backend) Frames() [][]Command { return b.frames }

// LastFrame returns the commands of the most recent frame.
func (b *Backend) LastFrame() []Command {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// FrameCount returns the number of completed frames.
func (b *Backend) FrameCount() int { return b.frameCount }

// Count returns how many recorded commands have type t.
func (b *Backend) Count(t CommandType) int {
	n := 0
	for _, c := range b.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Reset drops the command log. Live resources are kept.
func (b *Backend) Reset() {
	b.commands = nil
	b.frames = nil
}

// BufferData returns the backing bytes of a live buffer.
func (b *Backend) BufferData(id gpucore.BufferID) ([]byte, bool) {
	buf, ok := b.buffers[id]
	return buf, ok
}

// BindGroup returns the descriptor of a live bind group.
func (b *Backend) BindGroup(id gpucore.BindGroupID) (gpucore.BindGroupDesc, bool) {
	d, ok := b.groups[id]
	return d, ok
}

// Pipeline returns the descriptor of a live pipeline.
func (b *Backend) Pipeline(id gpucore.PipelineID) (gpucore.RenderPipelineDesc, bool) {
	d, ok := b.pipelines[id]
	return d, ok
}

// LiveBuffers returns the number of live buffers.
func (b *Backend) LiveBuffers() int { return len(b.buffers) }

// LiveBindGroups returns the number of live bind groups.
func (b *Backend) LiveBindGroups() int { return len(b.groups) }

// LiveTextures returns the number of live textures.
func (b *Backend) LiveTextures() int { return len(b.textures) }

// Pass is the recording RenderPass.
type Pass struct {
	backend *Backend
	errs    []error
}

func (p *Pass) invalid(what string, id uint64) {
	p.errs = append(p.errs, fmt.Errorf("%s %d: %w", what, id, gpucore.ErrInvalidID))
}

// SetPipeline implements gpucore.RenderPass.
func (p *Pass) SetPipeline(id gpucore.PipelineID) {
	if _, ok := p.backend.pipelines[id]; !ok {
		p.invalid("pipeline", uint64(id))
	}
	p.backend.record(SetPipelineCommand{Pipeline: id})
}

// SetBindGroup implements gpucore.RenderPass.
func (p *Pass) SetBindGroup(index uint32, group gpucore.BindGroupID, dynamicOffsets []uint32) {
	if _, ok := p.backend.groups[group]; !ok {
		p.invalid("bind group", uint64(group))
	}
	var offsets []uint32
	if len(dynamicOffsets) > 0 {
		offsets = append([]uint32(nil), dynamicOffsets...)
	}
	p.backend.record(SetBindGroupCommand{Index: index, Group: group, Offsets: offsets})
}

// SetVertexBuffer implements gpucore.RenderPass.
func (p *Pass) SetVertexBuffer(slot uint32, buf gpucore.BufferID, offset uint64) {
	if _, ok := p.backend.buffers[buf]; !ok {
		p.invalid("vertex buffer", uint64(buf))
	}
	p.backend.record(SetVertexBufferCommand{Slot: slot, Buffer: buf, Offset: offset})
}

// SetIndexBuffer implements gpucore.RenderPass.
func (p *Pass) SetIndexBuffer(buf gpucore.BufferID, format gputypes.IndexFormat, offset uint64) {
	if _, ok := p.backend.buffers[buf]; !ok {
		p.invalid("index buffer", uint64(buf))
	}
	p.backend.record(SetIndexBufferCommand{Buffer: buf, Format: format, Offset: offset})
}

// DrawIndexed implements gpucore.RenderPass.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.backend.record(DrawIndexedCommand{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
	})
}
