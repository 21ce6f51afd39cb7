// Package g3d is a small retained-mode 2D/3D rendering engine on top of
// the GoGPU stack.
//
// # Overview
//
// An Engine owns resource tables (meshes, textures, shaders, materials), a
// scene of positioned entities and a renderer. Each frame the scene
// resolves world matrices through its transform hierarchy, groups visible
// entities by shader, uploads per-entity uniforms and orders the draw
// list; the renderer then records it with as few state changes as
// possible.
//
// # Quick Start
//
//	b, err := backend.Open(backend.BackendWGPU)
//	if err != nil { ... }
//	defer b.Destroy()
//
//	e, err := g3d.New(b)
//	if err != nil { ... }
//	defer e.Close()
//
//	cube, _ := e.CreateMesh("cube", primitives.Cube())
//	e.Scene().AddEntity(transform.Identity(), scene.NewEntity(cube, e.Builtins().UnlitWhite))
//
//	err = e.Run(ctx, 60, func(e *g3d.Engine, dt float32) error {
//	    return nil
//	})
//
// # Architecture
//
// The module is organized into:
//   - transform, hierarchy: local transforms and parent/child world matrices
//   - resource: GPU resource records and typed generational tables
//   - scene: entities, prefabs, cameras, draw list construction
//   - render: minimal-rebind draw recording
//   - gpucore: the backend contract; recording and backend/wgpu implement it
//
// # Coordinate System
//
// Right-handed world space with +Y up. Cameras look down their local -Z
// axis; depth is remapped to the WebGPU [0, 1] clip range.
//
// # Errors
//
// Resource handles that no longer resolve panic. Device loss and
// out-of-memory stop Engine.Run; a lost surface is retried.
package g3d
