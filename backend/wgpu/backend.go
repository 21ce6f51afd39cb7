// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
)

// ErrNoAdapter is returned when no HAL backend exposes a usable adapter.
var ErrNoAdapter = errors.New("wgpu: no GPU adapter available")

// adapterPreference is the order in which HAL backends are tried by New.
var adapterPreference = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

type buffer struct {
	raw  hal.Buffer
	size uint64
}

type texture struct {
	raw  hal.Texture
	view hal.TextureView
	desc gpucore.TextureDesc
}

type pipeline struct {
	layout hal.PipelineLayout
	raw    hal.RenderPipeline
}

// Backend is a gpucore.Backend backed by a HAL device and queue.
//
// Backend is not safe for concurrent use; the frame loop owns it.
type Backend struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	external bool
	adapter  string
	opts     options

	nextID    uint64
	buffers   map[gpucore.BufferID]*buffer
	textures  map[gpucore.TextureID]*texture
	samplers  map[gpucore.SamplerID]hal.Sampler
	layouts   map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	groups    map[gpucore.BindGroupID]hal.BindGroup
	modules   map[gpucore.ShaderModuleID]hal.ShaderModule
	pipelines map[gpucore.PipelineID]*pipeline

	target    renderTarget
	frame     *Pass
	submitted uint64
	lost      bool
}

var _ gpucore.Backend = (*Backend)(nil)

// New opens the first hardware adapter exposed by the registered HAL
// backends, trying Vulkan, Metal, DX12 and GL in that order.
func New(opts ...Option) (*Backend, error) {
	var errs []error
	for _, variant := range adapterPreference {
		if _, ok := hal.GetBackend(variant); !ok {
			continue
		}
		b, err := Open(variant, opts...)
		if err == nil {
			return b, nil
		}
		slogger().Debug("wgpu: backend unavailable", "backend", variant.String(), "error", err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, errors.Join(errs...))
	}
	return nil, ErrNoAdapter
}

// Open creates an instance of the given HAL backend and opens a device on
// its preferred adapter. Discrete and integrated GPUs are preferred over
// software adapters.
func Open(variant gputypes.Backend, opts ...Option) (*Backend, error) {
	halBackend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("wgpu: %s backend not registered", variant)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	o := buildOptions(opts)
	openDev, err := selected.Adapter.Open(gputypes.Features(0), o.limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	b := newBackend(openDev.Device, openDev.Queue, o)
	b.instance = instance
	b.adapter = selected.Info.Name
	slogger().Info("wgpu: device opened", "backend", variant.String(), "adapter", b.adapter)
	return b, nil
}

// NewFromDevice wraps an externally owned HAL device and queue.
// Destroy releases the backend's resources but leaves the device alive.
func NewFromDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, errors.New("wgpu: nil device or queue")
	}
	b := newBackend(device, queue, buildOptions(opts))
	b.external = true
	return b, nil
}

// NewFromProvider wraps the device shared by a host such as a gogpu
// window. The provider must expose HalDevice() and HalQueue() returning
// hal.Device and hal.Queue. When it also implements
// gpucontext.DeviceProvider, its surface format becomes the default
// color format.
func NewFromProvider(provider any, opts ...Option) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}

	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		if f := dp.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			opts = append([]Option{WithColorFormat(f)}, opts...)
		}
	}
	return NewFromDevice(device, queue, opts...)
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newBackend(device hal.Device, queue hal.Queue, o options) *Backend {
	return &Backend{
		device:    device,
		queue:     queue,
		opts:      o,
		buffers:   make(map[gpucore.BufferID]*buffer),
		textures:  make(map[gpucore.TextureID]*texture),
		samplers:  make(map[gpucore.SamplerID]hal.Sampler),
		layouts:   make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		groups:    make(map[gpucore.BindGroupID]hal.BindGroup),
		modules:   make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		pipelines: make(map[gpucore.PipelineID]*pipeline),
	}
}

// Name implements gpucore.Backend.
func (b *Backend) Name() string { return "wgpu" }

// Adapter returns the adapter name, or "" for an external device.
func (b *Backend) Adapter() string { return b.adapter }

// Limits implements gpucore.Backend.
func (b *Backend) Limits() gputypes.Limits { return b.opts.limits }

// ColorFormat returns the color target format.
func (b *Backend) ColorFormat() gputypes.TextureFormat { return b.opts.colorFormat }

// DepthFormat returns the depth attachment format.
func (b *Backend) DepthFormat() gputypes.TextureFormat { return b.opts.depthFormat }

// Size returns the offscreen target size.
func (b *Backend) Size() (width, height uint32) { return b.opts.width, b.opts.height }

// Resize changes the target size. The target is recreated by the next
// BeginFrame.
func (b *Backend) Resize(width, height uint32) error {
	if b.frame != nil {
		return gpucore.ErrFrameInProgress
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("wgpu: resize to %dx%d: %w", width, height, hal.ErrZeroArea)
	}
	b.opts.width, b.opts.height = width, height
	return nil
}

// Submitted returns the index of the last submission.
func (b *Backend) Submitted() uint64 { return b.submitted }

func (b *Backend) id() uint64 {
	b.nextID++
	return b.nextID
}

// mapError wraps HAL errors with their gpucore classification and marks
// the backend lost when the device is gone.
func (b *Backend) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrDeviceLost):
		b.lost = true
		return fmt.Errorf("%w: %w", gpucore.ErrDeviceLost, err)
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return fmt.Errorf("%w: %w", gpucore.ErrOutOfMemory, err)
	case errors.Is(err, hal.ErrSurfaceLost), errors.Is(err, hal.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", gpucore.ErrSurfaceLost, err)
	}
	return err
}

// Destroy releases every resource created through the backend. A device
// opened by New or Open is destroyed too; an external device is not.
func (b *Backend) Destroy() {
	if b.device == nil {
		return
	}
	if b.frame != nil {
		b.frame.rp.End()
		b.frame.encoder.DiscardEncoding()
		b.frame = nil
	}
	for id := range b.pipelines {
		b.DestroyRenderPipeline(id)
	}
	for id := range b.groups {
		b.DestroyBindGroup(id)
	}
	for id := range b.layouts {
		b.DestroyBindGroupLayout(id)
	}
	for id := range b.modules {
		b.DestroyShaderModule(id)
	}
	for id := range b.samplers {
		b.DestroySampler(id)
	}
	for id := range b.textures {
		b.DestroyTexture(id)
	}
	for id := range b.buffers {
		b.DestroyBuffer(id)
	}
	b.target.destroy(b.device)

	if !b.external {
		b.device.Destroy()
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	b.lost = true
}
