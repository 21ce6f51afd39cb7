// Package recording provides an in-memory GPU backend that records every
// call as a typed command.
//
// The recording backend implements gpucore.Backend without a GPU. It is the
// backend used by tests and by headless runs of the demo: resources are
// tracked by ID, buffers keep their bytes, and each frame's render pass is
// captured as a command list that can be inspected afterwards.
//
// # Architecture
//
// Commands follow a Command Pattern: each Backend or RenderPass call appends
// one value implementing [Command]. Commands are plain structs, so tests
// compare them directly:
//
//	rec := recording.New()
//	// ... create resources and render a frame through gpucore.Backend ...
//	for _, c := range rec.LastFrame() {
//	    if d, ok := c.(recording.DrawIndexedCommand); ok {
//	        fmt.Println("draw", d.IndexCount)
//	    }
//	}
//
// # Validation
//
// Resource creation validates sizes and referenced IDs. Pass commands that
// reference unknown resources are still recorded, and EndFrame returns an
// error wrapping gpucore.ErrInvalidID, mirroring GPU validation errors.
//
// # Fault Injection
//
// [WithFrameErrors] queues errors for successive BeginFrame calls so frame
// loop retry and abort paths can be tested deterministically.
package recording
