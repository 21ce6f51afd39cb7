package recording

import (
	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
)

func init() {
	backend.Register(backend.BackendRecording, func() (gpucore.Backend, error) {
		return New(), nil
	})
}
