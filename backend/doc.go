// Package backend provides name-based selection of GPU backends.
//
// Backends register a factory from init() and are opened at runtime by
// name, following the database/sql driver pattern:
//
//	import (
//		"github.com/gogpu/g3d/backend"
//		_ "github.com/gogpu/g3d/backend/wgpu" // registers "wgpu"
//		_ "github.com/gogpu/g3d/recording"    // registers "recording"
//	)
//
//	b, err := backend.Open("wgpu")
//
// Default opens the first backend that succeeds in priority order
// (wgpu, then recording), so headless environments fall back to the
// in-memory recorder.
package backend
