package g3d

import "github.com/gogpu/g3d/scene"

// DefaultMaxRetries is the number of consecutive recoverable frame
// failures Run tolerates.
const DefaultMaxRetries = 3

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := g3d.New(b,
//	    g3d.WithCamera(cam),
//	    g3d.WithMaxRetries(5),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	camera     scene.Camera
	clock      *Clock
	maxRetries int
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		camera:     scene.DefaultCamera(),
		maxRetries: DefaultMaxRetries,
	}
}

// WithCamera sets the initial camera.
func WithCamera(c scene.Camera) Option {
	return func(o *options) {
		o.camera = c
	}
}

// WithClock sets the clock Run advances. A nil clock is replaced by
// NewClock.
func WithClock(c *Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMaxRetries sets how many consecutive recoverable frame failures
// Run tolerates before giving up. Negative values mean zero.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = max(n, 0)
	}
}
