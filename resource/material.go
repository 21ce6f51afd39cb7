package resource

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
)

// Material pairs a shader with a texture through a group 1 bind group.
type Material struct {
	Shader    ShaderID
	Texture   TextureID
	BindGroup gpucore.BindGroupID
}

// NewMaterial binds texture for use with shader. Both handles must
// resolve; an invalid handle panics.
func NewMaterial(b gpucore.Backend, shaders *Table[ShaderID, Shader], textures *Table[TextureID, Texture],
	shader ShaderID, texture TextureID) (Material, error) {
	sh := shaders.Get(shader)
	tex := textures.Get(texture)

	group, err := b.CreateBindGroup(gpucore.BindGroupDesc{
		Label:  sh.Label + "/" + tex.Label,
		Layout: sh.MaterialLayout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Texture: tex.Handle},
			{Binding: 1, Sampler: tex.Sampler},
		},
	})
	if err != nil {
		return Material{}, fmt.Errorf("material %s/%s: %w", sh.Label, tex.Label, err)
	}
	return Material{Shader: shader, Texture: texture, BindGroup: group}, nil
}

// Destroy releases the bind group. The shader and texture are not owned.
func (m Material) Destroy(b gpucore.Backend) {
	b.DestroyBindGroup(m.BindGroup)
}
