// Package resource owns the GPU-side assets a scene draws with: meshes,
// textures, shaders and materials, plus the per-shader uniform storage
// that feeds them.
//
// Assets are stored in generational tables and referenced by typed
// handles. A handle that no longer resolves is a programmer error, so
// Table.Get panics; Table.Lookup is the non-panicking variant for callers
// that accept missing entries.
//
// Every shader created by NewShader follows the same bind group contract:
//
//	@group(0) @binding(0)  camera uniform  (view-projection, 64 bytes)
//	@group(1) @binding(0)  texture_2d<f32>
//	@group(1) @binding(1)  sampler
//	@group(2) @binding(0)  entity uniform  (96 bytes, dynamic offset)
//
// Entity uniforms for all entities drawn with one shader live in a single
// buffer and are selected per draw through a dynamic offset.
package resource
