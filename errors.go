package g3d

import "errors"

var (
	// ErrClosed is returned by Engine methods after Close.
	ErrClosed = errors.New("g3d: engine closed")

	// ErrTooManyRetries is returned by Run when recoverable frame
	// failures exceed the retry limit. It wraps the last failure.
	ErrTooManyRetries = errors.New("g3d: too many failed frames")
)
