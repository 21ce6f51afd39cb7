// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"time"

	"github.com/gogpu/gputypes"
)

// Default target configuration.
const (
	DefaultWidth  = 800
	DefaultHeight = 600

	// DefaultSubmitTimeout bounds how long EndFrame waits for the queue.
	DefaultSubmitTimeout = 5 * time.Second
)

type options struct {
	width, height uint32
	colorFormat   gputypes.TextureFormat
	depthFormat   gputypes.TextureFormat
	spirv         bool
	limits        gputypes.Limits
	timeout       time.Duration
}

func defaultOptions() options {
	return options{
		width:       DefaultWidth,
		height:      DefaultHeight,
		colorFormat: gputypes.TextureFormatBGRA8Unorm,
		depthFormat: gputypes.TextureFormatDepth24Plus,
		spirv:       true,
		limits:      gputypes.DefaultLimits(),
		timeout:     DefaultSubmitTimeout,
	}
}

// Option configures a Backend.
type Option func(*options)

// WithTargetSize sets the offscreen target size in pixels.
func WithTargetSize(width, height uint32) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithColorFormat sets the color target format. Pipelines must be created
// with the same format.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *options) { o.colorFormat = f }
}

// WithDepthFormat sets the depth attachment format.
// gputypes.TextureFormatUndefined renders without a depth attachment.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) { o.depthFormat = f }
}

// WithSPIRV controls whether WGSL is compiled to SPIR-V before module
// creation. Enabled by default.
func WithSPIRV(enabled bool) Option {
	return func(o *options) { o.spirv = enabled }
}

// WithLimits sets the limits requested when opening a device.
func WithLimits(l gputypes.Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithSubmitTimeout bounds how long EndFrame waits for submitted work.
func WithSubmitTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}
