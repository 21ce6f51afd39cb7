// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render replays a scene's ordered draw list into a render pass.
//
// # Minimal Rebinding
//
// Draw walks the list once and tracks the bound shader, material and mesh.
// A pipeline switch (with the shader's camera group) is emitted only when
// the shader changes, the material group only when the material changes
// and the vertex and index buffers only when the mesh changes. The entity
// group is rebound for every item with that item's dynamic offset.
//
// Because scene.Update groups items by shader, a frame costs one pipeline
// switch per shader plus one per change between consecutive items of the
// depth-sorted tail.
//
// # Frames
//
// Renderer wraps a gpucore.Backend and renders one frame per RenderFrame
// call. An empty draw list still begins and ends a frame, so the target is
// cleared.
package render
