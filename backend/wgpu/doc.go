// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpucore.Backend on top of the gogpu/wgpu HAL.
//
// The backend renders into an offscreen color target with an optional
// depth attachment. Each frame is one command encoder holding one render
// pass; EndFrame submits it and waits for the queue to retire it, so
// Snapshot can read the finished image back.
//
// # Registration
//
// Importing the package registers the "wgpu" backend, which opens the
// first hardware adapter found through the HAL registry:
//
//	import _ "github.com/gogpu/g3d/backend/wgpu"
//
//	b, err := backend.Open("wgpu")
//
// # Shared Devices
//
// Hosts that already own a device (for example a gogpu window) pass it in
// through NewFromProvider. The provider must expose HalDevice() and
// HalQueue(); the backend never destroys a device it did not create.
//
// # Shaders
//
// WGSL is compiled to SPIR-V with gogpu/naga before module creation.
// WithSPIRV(false) hands WGSL to the HAL unchanged for backends that
// consume it directly.
//
// # Error Mapping
//
// HAL errors are wrapped with their gpucore counterparts so callers can
// classify them with gpucore.IsRecoverable:
//
//   - hal.ErrSurfaceLost, hal.ErrSurfaceOutdated: gpucore.ErrSurfaceLost
//   - hal.ErrDeviceLost: gpucore.ErrDeviceLost
//   - hal.ErrDeviceOutOfMemory: gpucore.ErrOutOfMemory
package wgpu
