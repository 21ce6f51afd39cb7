// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/scene"
)

// Stats counts the commands Draw emitted.
type Stats struct {
	Draws            int
	PipelineSwitches int
	MaterialBinds    int
	MeshBinds        int
	OffsetBinds      int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Draws:            s.Draws + o.Draws,
		PipelineSwitches: s.PipelineSwitches + o.PipelineSwitches,
		MaterialBinds:    s.MaterialBinds + o.MaterialBinds,
		MeshBinds:        s.MeshBinds + o.MeshBinds,
		OffsetBinds:      s.OffsetBinds + o.OffsetBinds,
	}
}

// Draw records items into pass with the minimal-rebind protocol.
// An item referencing a resource missing from res panics.
func Draw(pass gpucore.RenderPass, items []scene.DrawItem, res *resource.Tables) Stats {
	var (
		stats    Stats
		shader   resource.ShaderID
		material resource.MaterialID
		mesh     resource.MeshID
		sh       *resource.Shader
		m        *resource.Mesh
		offset   [1]uint32
	)
	for i := range items {
		it := &items[i]
		if it.Shader != shader || sh == nil {
			sh = res.Shaders.Get(it.Shader)
			shader = it.Shader
			pass.SetPipeline(sh.Pipeline)
			pass.SetBindGroup(resource.GroupCamera, sh.Camera.BindGroup(), nil)
			stats.PipelineSwitches++
			// a new pipeline invalidates the material binding
			material = 0
		}
		if it.Material != material {
			mat := res.Materials.Get(it.Material)
			material = it.Material
			pass.SetBindGroup(resource.GroupMaterial, mat.BindGroup, nil)
			stats.MaterialBinds++
		}
		if it.Mesh != mesh || m == nil {
			m = res.Meshes.Get(it.Mesh)
			mesh = it.Mesh
			pass.SetVertexBuffer(0, m.VertexBuffer, 0)
			pass.SetIndexBuffer(m.IndexBuffer, gputypes.IndexFormatUint16, 0)
			stats.MeshBinds++
		}

		offset[0] = sh.Entities.Offset(it.Index)
		pass.SetBindGroup(resource.GroupEntity, sh.Entities.BindGroup(), offset[:])
		stats.OffsetBinds++

		pass.DrawIndexed(m.IndexCount, 1, 0, 0, 0)
		stats.Draws++
	}
	return stats
}
