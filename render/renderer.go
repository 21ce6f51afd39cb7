// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/scene"
)

// Renderer draws updated scenes through a backend.
//
// Thread Safety: Renderer is NOT thread-safe. Use it from the goroutine
// that runs the frame loop.
type Renderer struct {
	backend gpucore.Backend
	frames  uint64
	total   Stats
}

// NewRenderer returns a renderer drawing through b.
func NewRenderer(b gpucore.Backend) *Renderer {
	return &Renderer{backend: b}
}

// RenderFrame renders sc's current draw list, clearing to cam.ClearColor.
// Call sc.Update first; RenderFrame does not update world matrices or
// uniforms. A draw item whose resources were removed panics.
func (r *Renderer) RenderFrame(ctx context.Context, sc *scene.Scene, res *resource.Tables, cam scene.Camera) (Stats, error) {
	pass, err := r.backend.BeginFrame(ctx, gpucore.FrameDesc{Label: "scene", ClearColor: cam.ClearColor})
	if err != nil {
		return Stats{}, fmt.Errorf("render: begin frame: %w", err)
	}

	stats := Draw(pass, sc.DrawList(), res)
	if err := r.backend.EndFrame(pass); err != nil {
		return stats, fmt.Errorf("render: end frame: %w", err)
	}
	r.frames++
	r.total = r.total.Add(stats)
	return stats, nil
}

// Frames returns the number of frames rendered successfully.
func (r *Renderer) Frames() uint64 { return r.frames }

// Totals returns stats accumulated over all frames.
func (r *Renderer) Totals() Stats { return r.total }
