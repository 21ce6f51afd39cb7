// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
)

func (b *Backend) alive() error {
	if b.lost || b.device == nil {
		return gpucore.ErrDeviceLost
	}
	return nil
}

// CreateBuffer implements gpucore.Backend.
func (b *Backend) CreateBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("wgpu: buffer %q: zero size", desc.Label)
	}
	raw, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create buffer %q: %w", desc.Label, err))
	}
	id := gpucore.BufferID(b.id())
	b.buffers[id] = &buffer{raw: raw, size: desc.Size}
	return id, nil
}

// WriteBuffer implements gpucore.Backend.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	buf, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("wgpu: write buffer %d: %w", id, gpucore.ErrInvalidID)
	}
	if offset+uint64(len(data)) > buf.size {
		return fmt.Errorf("wgpu: write buffer %d: range [%d, %d) exceeds size %d",
			id, offset, offset+uint64(len(data)), buf.size)
	}
	if err := b.queue.WriteBuffer(buf.raw, offset, data); err != nil {
		return b.mapError(fmt.Errorf("wgpu: write buffer %d: %w", id, err))
	}
	return nil
}

// DestroyBuffer implements gpucore.Backend.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	if buf, ok := b.buffers[id]; ok {
		b.device.DestroyBuffer(buf.raw)
		delete(b.buffers, id)
	}
}

// CreateTexture implements gpucore.Backend.
func (b *Backend) CreateTexture(desc gpucore.TextureDesc, texels []byte) (gpucore.TextureID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("wgpu: texture %q: zero extent", desc.Label)
	}
	if texels != nil && len(texels) != int(desc.BytesPerRow()*desc.Height) {
		return gpucore.InvalidID, fmt.Errorf("wgpu: texture %q: got %d texel bytes, want %d",
			desc.Label, len(texels), desc.BytesPerRow()*desc.Height)
	}

	size := hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1}
	raw, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err))
	}
	view, err := b.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:           desc.Label + "_view",
		Format:          desc.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(raw)
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create view %q: %w", desc.Label, err))
	}

	if texels != nil {
		err := b.queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: raw, Aspect: gputypes.TextureAspectAll},
			texels,
			&hal.ImageDataLayout{BytesPerRow: desc.BytesPerRow(), RowsPerImage: desc.Height},
			&size,
		)
		if err != nil {
			b.device.DestroyTextureView(view)
			b.device.DestroyTexture(raw)
			return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: upload texture %q: %w", desc.Label, err))
		}
	}

	id := gpucore.TextureID(b.id())
	b.textures[id] = &texture{raw: raw, view: view, desc: desc}
	return id, nil
}

// DestroyTexture implements gpucore.Backend.
func (b *Backend) DestroyTexture(id gpucore.TextureID) {
	if t, ok := b.textures[id]; ok {
		b.device.DestroyTextureView(t.view)
		b.device.DestroyTexture(t.raw)
		delete(b.textures, id)
	}
}

// CreateSampler implements gpucore.Backend.
func (b *Backend) CreateSampler(desc gpucore.SamplerDesc) (gpucore.SamplerID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	raw, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressMode,
		AddressModeV: desc.AddressMode,
		AddressModeW: desc.AddressMode,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: desc.MinFilter,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create sampler %q: %w", desc.Label, err))
	}
	id := gpucore.SamplerID(b.id())
	b.samplers[id] = raw
	return id, nil
}

// DestroySampler implements gpucore.Backend.
func (b *Backend) DestroySampler(id gpucore.SamplerID) {
	if s, ok := b.samplers[id]; ok {
		b.device.DestroySampler(s)
		delete(b.samplers, id)
	}
}

// CreateBindGroupLayout implements gpucore.Backend.
func (b *Backend) CreateBindGroupLayout(desc gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	raw, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: desc.Entries,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create bind group layout %q: %w", desc.Label, err))
	}
	id := gpucore.BindGroupLayoutID(b.id())
	b.layouts[id] = raw
	return id, nil
}

// DestroyBindGroupLayout implements gpucore.Backend.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	if l, ok := b.layouts[id]; ok {
		b.device.DestroyBindGroupLayout(l)
		delete(b.layouts, id)
	}
}

// CreateBindGroup implements gpucore.Backend.
func (b *Backend) CreateBindGroup(desc gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	layout, ok := b.layouts[desc.Layout]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("wgpu: bind group %q layout %d: %w", desc.Label, desc.Layout, gpucore.ErrInvalidID)
	}
	entries := make([]gputypes.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		res, err := b.bindingResource(e)
		if err != nil {
			return gpucore.InvalidID, fmt.Errorf("wgpu: bind group %q: %w", desc.Label, err)
		}
		entries = append(entries, gputypes.BindGroupEntry{Binding: e.Binding, Resource: res})
	}
	raw, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create bind group %q: %w", desc.Label, err))
	}
	id := gpucore.BindGroupID(b.id())
	b.groups[id] = raw
	return id, nil
}

func (b *Backend) bindingResource(e gpucore.BindGroupEntry) (gputypes.BindingResource, error) {
	set := 0
	for _, v := range []uint64{uint64(e.Buffer), uint64(e.Texture), uint64(e.Sampler)} {
		if v != gpucore.InvalidID {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("binding %d: want exactly one resource, got %d", e.Binding, set)
	}

	switch {
	case e.Buffer != gpucore.InvalidID:
		buf, ok := b.buffers[e.Buffer]
		if !ok {
			return nil, fmt.Errorf("binding %d buffer %d: %w", e.Binding, e.Buffer, gpucore.ErrInvalidID)
		}
		if e.Offset+e.Size > buf.size {
			return nil, fmt.Errorf("binding %d: range [%d, %d) exceeds buffer size %d",
				e.Binding, e.Offset, e.Offset+e.Size, buf.size)
		}
		return gputypes.BufferBinding{Buffer: buf.raw.NativeHandle(), Offset: e.Offset, Size: e.Size}, nil
	case e.Texture != gpucore.InvalidID:
		t, ok := b.textures[e.Texture]
		if !ok {
			return nil, fmt.Errorf("binding %d texture %d: %w", e.Binding, e.Texture, gpucore.ErrInvalidID)
		}
		return gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()}, nil
	default:
		s, ok := b.samplers[e.Sampler]
		if !ok {
			return nil, fmt.Errorf("binding %d sampler %d: %w", e.Binding, e.Sampler, gpucore.ErrInvalidID)
		}
		return gputypes.SamplerBinding{Sampler: s.NativeHandle()}, nil
	}
}

// DestroyBindGroup implements gpucore.Backend.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	if g, ok := b.groups[id]; ok {
		b.device.DestroyBindGroup(g)
		delete(b.groups, id)
	}
}

// CreateShaderModule implements gpucore.Backend.
func (b *Backend) CreateShaderModule(desc gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	source := hal.ShaderSource{WGSL: desc.WGSL}
	if b.opts.spirv {
		code, err := CompileSPIRV(desc.WGSL)
		if err != nil {
			return gpucore.InvalidID, fmt.Errorf("wgpu: shader %q: %w", desc.Label, err)
		}
		source = hal.ShaderSource{SPIRV: code}
	}
	raw, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: source,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create shader module %q: %w", desc.Label, err))
	}
	id := gpucore.ShaderModuleID(b.id())
	b.modules[id] = raw
	return id, nil
}

// DestroyShaderModule implements gpucore.Backend.
func (b *Backend) DestroyShaderModule(id gpucore.ShaderModuleID) {
	if m, ok := b.modules[id]; ok {
		b.device.DestroyShaderModule(m)
		delete(b.modules, id)
	}
}

// CreateRenderPipeline implements gpucore.Backend.
func (b *Backend) CreateRenderPipeline(desc gpucore.RenderPipelineDesc) (gpucore.PipelineID, error) {
	if err := b.alive(); err != nil {
		return gpucore.InvalidID, err
	}
	module, ok := b.modules[desc.Module]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("wgpu: pipeline %q module %d: %w", desc.Label, desc.Module, gpucore.ErrInvalidID)
	}
	layouts := make([]hal.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for _, lid := range desc.BindGroupLayouts {
		l, ok := b.layouts[lid]
		if !ok {
			return gpucore.InvalidID, fmt.Errorf("wgpu: pipeline %q layout %d: %w", desc.Label, lid, gpucore.ErrInvalidID)
		}
		layouts = append(layouts, l)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create pipeline layout %q: %w", desc.Label, err))
	}

	var depthStencil *hal.DepthStencilState
	if desc.DepthFormat != gputypes.TextureFormatUndefined {
		keep := hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways}
		depthStencil = &hal.DepthStencilState{
			Format:            desc.DepthFormat,
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      gputypes.CompareFunctionLessEqual,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}

	raw, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.VertexBuffers,
		},
		Primitive:    desc.Primitive,
		DepthStencil: depthStencil,
		Multisample:  gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    desc.ColorFormat,
				Blend:     desc.Blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		b.device.DestroyPipelineLayout(pipelineLayout)
		return gpucore.InvalidID, b.mapError(fmt.Errorf("wgpu: create render pipeline %q: %w", desc.Label, err))
	}
	id := gpucore.PipelineID(b.id())
	b.pipelines[id] = &pipeline{layout: pipelineLayout, raw: raw}
	return id, nil
}

// DestroyRenderPipeline implements gpucore.Backend.
func (b *Backend) DestroyRenderPipeline(id gpucore.PipelineID) {
	if p, ok := b.pipelines[id]; ok {
		b.device.DestroyRenderPipeline(p.raw)
		b.device.DestroyPipelineLayout(p.layout)
		delete(b.pipelines, id)
	}
}
