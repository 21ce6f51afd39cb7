package g3d

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/scene"
)

// enginesMu guards liveBackends.
var enginesMu sync.Mutex

// Engine owns the resource tables and the scene drawn through one
// backend, and drives the frame loop.
//
// Thread Safety: Engine is NOT thread-safe. Use it from the goroutine
// that runs the frame loop.
type Engine struct {
	backend  gpucore.Backend
	res      *resource.Tables
	scene    *scene.Scene
	renderer *render.Renderer
	camera   scene.Camera
	clock    *Clock

	maxRetries int
	builtins   Builtins
	now        func() time.Time
	closed     bool
}

// New creates an engine drawing through b and creates the built-in
// shaders. The engine does not own b; destroy it after Close.
func New(b gpucore.Backend, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewClock()
	}

	e := &Engine{
		backend:    b,
		res:        resource.NewTables(),
		scene:      scene.New(),
		renderer:   render.NewRenderer(b),
		camera:     o.camera,
		clock:      o.clock,
		maxRetries: o.maxRetries,
		now:        time.Now,
	}
	if err := e.createBuiltins(); err != nil {
		e.res.Destroy(b)
		return nil, err
	}

	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(Logger())
		enginesMu.Lock()
		liveBackends[ls]++
		enginesMu.Unlock()
	}
	Logger().Info("g3d: engine created", "backend", b.Name())
	return e, nil
}

// Backend returns the backend the engine draws through.
func (e *Engine) Backend() gpucore.Backend { return e.backend }

// Scene returns the engine's scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Resources returns the engine's resource tables.
func (e *Engine) Resources() *resource.Tables { return e.res }

// Builtins returns the resources created by New.
func (e *Engine) Builtins() Builtins { return e.builtins }

// Camera returns the camera used by Frame.
func (e *Engine) Camera() scene.Camera { return e.camera }

// SetCamera replaces the camera used by Frame.
func (e *Engine) SetCamera(c scene.Camera) { e.camera = c }

// Clock returns the clock Run advances.
func (e *Engine) Clock() *Clock { return e.clock }

// Renderer returns the frame renderer, which keeps frame totals.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// CreateMesh uploads data and returns its handle.
func (e *Engine) CreateMesh(label string, data resource.MeshData) (resource.MeshID, error) {
	if e.closed {
		return 0, ErrClosed
	}
	m, err := resource.NewMesh(e.backend, label, data)
	if err != nil {
		return 0, fmt.Errorf("g3d: create mesh: %w", err)
	}
	return e.res.Meshes.Insert(m), nil
}

// CreateTexture uploads tightly packed RGBA8 texels.
func (e *Engine) CreateTexture(label string, width, height uint32, rgba []byte) (resource.TextureID, error) {
	if e.closed {
		return 0, ErrClosed
	}
	t, err := resource.NewTexture(e.backend, label, width, height, rgba)
	if err != nil {
		return 0, fmt.Errorf("g3d: create texture: %w", err)
	}
	return e.res.Textures.Insert(t), nil
}

// CreateTextureFromImage uploads a decoded image.
func (e *Engine) CreateTextureFromImage(label string, img image.Image) (resource.TextureID, error) {
	w, h, texels := resource.TexelsFromImage(img)
	return e.CreateTexture(label, w, h, texels)
}

// CreateShader builds a shader pipeline. Unset color and depth formats
// default to the backend's target formats.
func (e *Engine) CreateShader(desc resource.ShaderDesc) (resource.ShaderID, error) {
	if e.closed {
		return 0, ErrClosed
	}
	color, depth := e.formats()
	if desc.ColorFormat == gputypes.TextureFormatUndefined {
		desc.ColorFormat = color
	}
	if desc.DepthFormat == gputypes.TextureFormatUndefined {
		desc.DepthFormat = depth
	}
	sh, err := resource.NewShader(e.backend, desc)
	if err != nil {
		return 0, fmt.Errorf("g3d: create shader %q: %w", desc.Label, err)
	}
	return e.res.Shaders.Insert(sh), nil
}

// CreateMaterial binds texture for use with shader. Invalid handles panic.
func (e *Engine) CreateMaterial(shader resource.ShaderID, texture resource.TextureID) (resource.MaterialID, error) {
	if e.closed {
		return 0, ErrClosed
	}
	m, err := resource.NewMaterial(e.backend, e.res.Shaders, e.res.Textures, shader, texture)
	if err != nil {
		return 0, fmt.Errorf("g3d: create material: %w", err)
	}
	return e.res.Materials.Insert(m), nil
}

// RemoveMesh destroys a mesh. Entities still drawing it panic on the next
// Frame. Reports whether id was live.
func (e *Engine) RemoveMesh(id resource.MeshID) bool {
	m, ok := e.res.Meshes.Remove(id)
	if ok {
		m.Destroy(e.backend)
	}
	return ok
}

// RemoveTexture destroys a texture. Materials binding it must be removed
// first.
func (e *Engine) RemoveTexture(id resource.TextureID) bool {
	t, ok := e.res.Textures.Remove(id)
	if ok {
		t.Destroy(e.backend)
	}
	return ok
}

// RemoveMaterial destroys a material's bind group. Prefabs and entities
// using it must be removed first.
func (e *Engine) RemoveMaterial(id resource.MaterialID) bool {
	m, ok := e.res.Materials.Remove(id)
	if ok {
		m.Destroy(e.backend)
	}
	return ok
}

// RemoveShader destroys a shader and every material using it.
func (e *Engine) RemoveShader(id resource.ShaderID) bool {
	sh, ok := e.res.Shaders.Remove(id)
	if !ok {
		return false
	}
	for mid, m := range e.res.Materials.All() {
		if m.Shader == id {
			e.RemoveMaterial(mid)
		}
	}
	sh.Destroy(e.backend)
	return true
}

// Frame updates the scene and renders it once.
func (e *Engine) Frame(ctx context.Context) (render.Stats, error) {
	if e.closed {
		return render.Stats{}, ErrClosed
	}
	if err := e.scene.Update(e.backend, e.res, e.camera); err != nil {
		return render.Stats{}, fmt.Errorf("g3d: update: %w", err)
	}
	return e.renderer.RenderFrame(ctx, e.scene, e.res, e.camera)
}

// Run renders frames until frames frames succeeded, or until ctx is done
// when frames is not positive. Before each frame it advances the clock and
// calls update with the elapsed game time; an update error stops Run.
//
// A recoverable frame error (see gpucore.IsRecoverable) is logged and
// the frame is tried again, up to the retry limit of consecutive
// failures. Any other frame error stops Run.
func (e *Engine) Run(ctx context.Context, frames int, update func(*Engine, float32) error) error {
	if e.closed {
		return ErrClosed
	}
	failures := 0
	for done := 0; frames <= 0 || done < frames; {
		if err := ctx.Err(); err != nil {
			return err
		}
		dt := e.clock.Tick(e.now())
		if update != nil {
			if err := update(e, dt); err != nil {
				return fmt.Errorf("g3d: update frame %d: %w", done, err)
			}
		}

		stats, err := e.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !gpucore.IsRecoverable(err) {
				return fmt.Errorf("g3d: frame %d: %w", done, err)
			}
			failures++
			if failures > e.maxRetries {
				return fmt.Errorf("%w: %w", ErrTooManyRetries, err)
			}
			Logger().Warn("g3d: frame failed, retrying", "frame", done, "attempt", failures, "err", err)
			continue
		}
		failures = 0
		done++
		Logger().Debug("g3d: frame", "frame", done, "draws", stats.Draws,
			"pipelines", stats.PipelineSwitches, "dt", dt)
	}
	return nil
}

// Close destroys the scene and every resource the engine created, in
// reverse dependency order. The backend is left open. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.scene.Clear()
	e.res.Destroy(e.backend)

	if ls, ok := e.backend.(loggerSetter); ok {
		enginesMu.Lock()
		if liveBackends[ls]--; liveBackends[ls] <= 0 {
			delete(liveBackends, ls)
		}
		enginesMu.Unlock()
	}
	Logger().Info("g3d: engine closed", "backend", e.backend.Name())
	return nil
}
