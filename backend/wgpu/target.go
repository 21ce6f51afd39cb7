// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// renderTarget holds the offscreen color texture and optional depth
// attachment. Textures are recreated when the size or formats change.
type renderTarget struct {
	width, height uint32
	colorFormat   gputypes.TextureFormat
	depthFormat   gputypes.TextureFormat

	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
}

func (t *renderTarget) ensure(device hal.Device, o options) error {
	if t.colorTex != nil && t.width == o.width && t.height == o.height &&
		t.colorFormat == o.colorFormat && t.depthFormat == o.depthFormat {
		return nil
	}
	t.destroy(device)

	size := hal.Extent3D{Width: o.width, Height: o.height, DepthOrArrayLayers: 1}

	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "g3d_target_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        o.colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color target: %w", err)
	}
	t.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:  "g3d_target_color_view",
		Format: o.colorFormat,
	})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("create color target view: %w", err)
	}
	t.colorView = colorView

	if o.depthFormat != gputypes.TextureFormatUndefined {
		depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "g3d_target_depth",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        o.depthFormat,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			t.destroy(device)
			return fmt.Errorf("create depth target: %w", err)
		}
		t.depthTex = depthTex

		depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
			Label:  "g3d_target_depth_view",
			Format: o.depthFormat,
		})
		if err != nil {
			t.destroy(device)
			return fmt.Errorf("create depth target view: %w", err)
		}
		t.depthView = depthView
	}

	t.width, t.height = o.width, o.height
	t.colorFormat, t.depthFormat = o.colorFormat, o.depthFormat
	slogger().Debug("wgpu: render target created", "width", t.width, "height", t.height,
		"color", t.colorFormat.String(), "depth", t.depthFormat.String())
	return nil
}

func (t *renderTarget) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if t.depthView != nil {
		device.DestroyTextureView(t.depthView)
		t.depthView = nil
	}
	if t.depthTex != nil {
		device.DestroyTexture(t.depthTex)
		t.depthTex = nil
	}
	if t.colorView != nil {
		device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.colorTex != nil {
		device.DestroyTexture(t.colorTex)
		t.colorTex = nil
	}
	t.width, t.height = 0, 0
}

func (t *renderTarget) passDescriptor(label string, clear gputypes.Color) *hal.RenderPassDescriptor {
	desc := &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	}
	if t.depthView != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1.0,
			StencilLoadOp:   gputypes.LoadOpClear,
			StencilStoreOp:  gputypes.StoreOpDiscard,
		}
	}
	return desc
}
