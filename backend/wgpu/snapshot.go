// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/gpucore"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// ErrNoTarget is returned by Snapshot before the first frame.
var ErrNoTarget = errors.New("wgpu: no rendered target")

// Snapshot copies the color target of the last frame into an RGBA image.
// BGRA targets are swizzled to RGBA.
func (b *Backend) Snapshot(ctx context.Context) (*image.RGBA, error) {
	if err := b.alive(); err != nil {
		return nil, err
	}
	if b.frame != nil {
		return nil, gpucore.ErrFrameInProgress
	}
	t := &b.target
	if t.colorTex == nil {
		return nil, ErrNoTarget
	}

	w, h := t.width, t.height
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "g3d_snapshot_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: create staging buffer: %w", err))
	}
	defer b.device.DestroyBuffer(staging)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "g3d_snapshot"})
	if err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding("g3d_snapshot"); err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: begin encoding: %w", err))
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.colorTex, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := b.submit(ctx, encoder); err != nil {
		return nil, err
	}

	mapping, err := b.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, b.mapError(fmt.Errorf("wgpu: map staging buffer: %w", err))
	}
	defer func() { _ = b.device.UnmapBuffer(staging) }()
	data := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	swizzle := t.colorFormat == gputypes.TextureFormatBGRA8Unorm ||
		t.colorFormat == gputypes.TextureFormatBGRA8UnormSrgb
	for y := 0; y < int(h); y++ {
		src := data[y*int(alignedBytesPerRow) : y*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[y*img.Stride : y*img.Stride+int(bytesPerRow)]
		copy(dst, src)
		if swizzle {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img, nil
}
