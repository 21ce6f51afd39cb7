// Package gpucore defines the GPU backend contract used by the g3d engine.
//
// The [Backend] interface abstracts over GPU implementations so the scene,
// resource and render packages work unchanged with:
//   - gogpu/wgpu HAL devices (package backend/wgpu)
//   - the in-memory command recorder (package recording)
//
//	      +---------------------------+
//	      | scene / resource / render |
//	      +-------------+-------------+
//	                    |
//	              gpucore.Backend
//	                    |
//	      +-------------+-------------+
//	      |                           |
//	+-----v------+             +------v------+
//	| wgpu (hal) |             |  recording  |
//	+------------+             +-------------+
//
// # Resource Management
//
// GPU resources are managed via opaque IDs ([BufferID], [TextureID], etc.).
// Backends track the mapping between IDs and native objects; the zero ID
// ([InvalidID]) is never issued. Descriptors reuse gogpu/gputypes enums so
// backends pass them through without translation.
//
// # Frames
//
// A frame is BeginFrame, a sequence of [RenderPass] calls, then EndFrame.
// Errors wrap the sentinels in this package; [IsRecoverable] tells the
// frame loop whether to retry on the next frame or stop.
package gpucore
