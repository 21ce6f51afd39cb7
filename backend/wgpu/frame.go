// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
)

// Pass is the render pass of an open frame. Commands naming resources the
// backend does not know are dropped and reported by EndFrame.
type Pass struct {
	b       *Backend
	ctx     context.Context
	encoder hal.CommandEncoder
	rp      hal.RenderPassEncoder
	draws   int
	err     error
}

var _ gpucore.RenderPass = (*Pass)(nil)

func (p *Pass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// SetPipeline implements gpucore.RenderPass.
func (p *Pass) SetPipeline(id gpucore.PipelineID) {
	pl, ok := p.b.pipelines[id]
	if !ok {
		p.fail(fmt.Errorf("wgpu: set pipeline %d: %w", id, gpucore.ErrInvalidID))
		return
	}
	p.rp.SetPipeline(pl.raw)
}

// SetBindGroup implements gpucore.RenderPass.
func (p *Pass) SetBindGroup(index uint32, group gpucore.BindGroupID, dynamicOffsets []uint32) {
	g, ok := p.b.groups[group]
	if !ok {
		p.fail(fmt.Errorf("wgpu: set bind group %d at %d: %w", group, index, gpucore.ErrInvalidID))
		return
	}
	p.rp.SetBindGroup(index, g, dynamicOffsets)
}

// SetVertexBuffer implements gpucore.RenderPass.
func (p *Pass) SetVertexBuffer(slot uint32, buf gpucore.BufferID, offset uint64) {
	vb, ok := p.b.buffers[buf]
	if !ok {
		p.fail(fmt.Errorf("wgpu: set vertex buffer %d: %w", buf, gpucore.ErrInvalidID))
		return
	}
	p.rp.SetVertexBuffer(slot, vb.raw, offset)
}

// SetIndexBuffer implements gpucore.RenderPass.
func (p *Pass) SetIndexBuffer(buf gpucore.BufferID, format gputypes.IndexFormat, offset uint64) {
	ib, ok := p.b.buffers[buf]
	if !ok {
		p.fail(fmt.Errorf("wgpu: set index buffer %d: %w", buf, gpucore.ErrInvalidID))
		return
	}
	p.rp.SetIndexBuffer(ib.raw, format, offset)
}

// DrawIndexed implements gpucore.RenderPass.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.rp.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	p.draws++
}

// Draws returns the number of indexed draws recorded so far.
func (p *Pass) Draws() int { return p.draws }

// BeginFrame implements gpucore.Backend. The pass clears the color target
// to desc.ClearColor and the depth attachment to 1.
func (b *Backend) BeginFrame(ctx context.Context, desc gpucore.FrameDesc) (gpucore.RenderPass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.alive(); err != nil {
		return nil, err
	}
	if b.frame != nil {
		return nil, gpucore.ErrFrameInProgress
	}
	if err := b.target.ensure(b.device, b.opts); err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: begin frame: %w", err))
	}

	label := desc.Label
	if label == "" {
		label = "g3d_frame"
	}
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: begin encoding: %w", err))
	}

	p := &Pass{
		b:       b,
		ctx:     ctx,
		encoder: encoder,
		rp:      encoder.BeginRenderPass(b.target.passDescriptor(label+"_pass", desc.ClearColor)),
	}
	b.frame = p
	return p, nil
}

// EndFrame implements gpucore.Backend. It submits the frame and waits
// for the queue to complete it. A validation error recorded by the pass is
// returned after submission.
func (b *Backend) EndFrame(pass gpucore.RenderPass) error {
	p, ok := pass.(*Pass)
	if !ok || p == nil || p != b.frame {
		return gpucore.ErrNoFrame
	}
	b.frame = nil
	p.rp.End()

	if err := b.submit(p.ctx, p.encoder); err != nil {
		return err
	}
	return p.err
}

// submit finishes encoding, submits the command buffer and waits for it.
func (b *Backend) submit(ctx context.Context, encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return b.mapError(fmt.Errorf("wgpu: end encoding: %w", err))
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	idx, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return b.mapError(fmt.Errorf("wgpu: submit: %w", err))
	}
	b.submitted = idx
	return b.wait(ctx, idx)
}

func (b *Backend) wait(ctx context.Context, idx uint64) error {
	deadline := time.Now().Add(b.opts.timeout)
	for b.queue.PollCompleted() < idx {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wgpu: wait for submission %d: %w", idx, hal.ErrTimeout)
		}
		time.Sleep(50 * time.Microsecond)
	}
	return nil
}
