package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/g3d/gpucore"
)

// Backend names.
const (
	// BackendWGPU is the gogpu/wgpu HAL backend (package backend/wgpu).
	BackendWGPU = "wgpu"
	// BackendRecording is the in-memory command recorder (package recording).
	BackendRecording = "recording"
)

// ErrBackendNotAvailable is returned when no registered backend could be opened.
var ErrBackendNotAvailable = errors.New("backend: no backend available")

// Factory opens a new backend instance.
type Factory func() (gpucore.Backend, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{BackendWGPU, BackendRecording}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("backend: Register factory is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open creates a backend instance by name.
// The error mentions a forgotten import when the name is unknown.
func Open(name string) (gpucore.Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend: unknown backend %q (forgotten import?)", name)
	}
	b, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: open %q: %w", name, err)
	}
	return b, nil
}

// Default opens the best available backend based on priority, then any
// other registered backend.
func Default() (gpucore.Backend, error) {
	var errs []error
	tried := make(map[string]bool)
	order := append(append([]string(nil), backendPriority...), Available()...)
	for _, name := range order {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		b, err := Open(name)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrBackendNotAvailable, errors.Join(errs...))
	}
	return nil, ErrBackendNotAvailable
}
