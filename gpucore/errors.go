package gpucore

import "errors"

var (
	// ErrInvalidID is returned when an ID does not name a live resource.
	ErrInvalidID = errors.New("gpucore: invalid resource id")

	// ErrFrameInProgress is returned by BeginFrame when a frame is open.
	ErrFrameInProgress = errors.New("gpucore: frame already in progress")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("gpucore: no frame in progress")

	// ErrSurfaceLost indicates the render target was lost or outdated.
	// The frame can be retried after the target is recreated.
	ErrSurfaceLost = errors.New("gpucore: surface lost")

	// ErrDeviceLost indicates the GPU device is gone. Not recoverable.
	ErrDeviceLost = errors.New("gpucore: device lost")

	// ErrOutOfMemory indicates the device ran out of memory. Not recoverable.
	ErrOutOfMemory = errors.New("gpucore: out of memory")
)

// IsRecoverable reports whether a frame that failed with err may be
// retried on the next frame.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrDeviceLost) || errors.Is(err, ErrOutOfMemory) {
		return false
	}
	return errors.Is(err, ErrSurfaceLost)
}
