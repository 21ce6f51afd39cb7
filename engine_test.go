package g3d

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/primitives"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/transform"
)

func newTestEngine(t *testing.T, rec *recording.Backend, opts ...Option) *Engine {
	t.Helper()
	e, err := New(rec, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNewCreatesBuiltins(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)
	bi := e.Builtins()

	res := e.Resources()
	if res.Shaders.Len() != 2 || res.Textures.Len() != 1 || res.Materials.Len() != 2 {
		t.Fatalf("tables = %d shaders, %d textures, %d materials; want 2, 1, 2",
			res.Shaders.Len(), res.Textures.Len(), res.Materials.Len())
	}

	unlit := res.Shaders.Get(bi.UnlitTextured)
	sprite := res.Shaders.Get(bi.Sprite)
	if unlit.RequiresOrdering || !sprite.RequiresOrdering {
		t.Errorf("RequiresOrdering = %v/%v, want false/true", unlit.RequiresOrdering, sprite.RequiresOrdering)
	}
	desc, ok := rec.Pipeline(sprite.Pipeline)
	if !ok {
		t.Fatal("sprite pipeline not recorded")
	}
	if desc.Blend == nil || desc.DepthWrite {
		t.Errorf("sprite pipeline blend=%v depthWrite=%v, want alpha blend without depth writes", desc.Blend, desc.DepthWrite)
	}
	if res.Materials.Get(bi.SpriteWhite).Shader != bi.Sprite {
		t.Error("SpriteWhite does not use the sprite shader")
	}
}

func TestFrameEmptyScene(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)

	stats, err := e.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if stats.Draws != 0 {
		t.Errorf("Draws = %d, want 0", stats.Draws)
	}
	if rec.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", rec.FrameCount())
	}
}

func TestFrameDrawsEntities(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)
	bi := e.Builtins()

	cube, err := e.CreateMesh("cube", primitives.Cube())
	if err != nil {
		t.Fatalf("CreateMesh() error = %v", err)
	}
	quad, err := e.CreateMesh("quad", primitives.Quad())
	if err != nil {
		t.Fatalf("CreateMesh() error = %v", err)
	}
	sc := e.Scene()
	sc.AddEntity(transform.Identity(), scene.NewEntity(cube, bi.UnlitWhite))
	glass := scene.NewEntity(quad, bi.SpriteWhite)
	glass.Color = mgl32.Vec4{1, 1, 1, 0.5}
	sc.AddEntity(transform.FromPosition(mgl32.Vec3{0, 0, 0.5}), glass)

	stats, err := e.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if stats.Draws != 2 || stats.PipelineSwitches != 2 || stats.MeshBinds != 2 {
		t.Errorf("stats = %+v, want 2 draws, 2 pipelines, 2 meshes", stats)
	}
	if got := e.Renderer().Frames(); got != 1 {
		t.Errorf("Renderer().Frames() = %d, want 1", got)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		frameErrs   []error
		maxRetries  int
		frames      int
		wantErr     error
		wantFrames  int
		wantUpdates int
	}{
		{"clean", nil, 3, 3, nil, 3, 3},
		{"retry surface lost", []error{gpucore.ErrSurfaceLost, nil, gpucore.ErrSurfaceLost}, 3, 3, nil, 3, 5},
		{"too many retries", []error{gpucore.ErrSurfaceLost, gpucore.ErrSurfaceLost, gpucore.ErrSurfaceLost}, 2, 3, ErrTooManyRetries, 0, 3},
		{"device lost", []error{nil, gpucore.ErrDeviceLost}, 3, 3, gpucore.ErrDeviceLost, 1, 2},
		{"out of memory", []error{gpucore.ErrOutOfMemory}, 3, 3, gpucore.ErrOutOfMemory, 0, 1},
		{"no retries", []error{gpucore.ErrSurfaceLost}, 0, 1, ErrTooManyRetries, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recording.New(recording.WithFrameErrors(tt.frameErrs...))
			e := newTestEngine(t, rec, WithMaxRetries(tt.maxRetries))

			updates := 0
			err := e.Run(context.Background(), tt.frames, func(*Engine, float32) error {
				updates++
				return nil
			})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if rec.FrameCount() != tt.wantFrames {
				t.Errorf("FrameCount() = %d, want %d", rec.FrameCount(), tt.wantFrames)
			}
			if updates != tt.wantUpdates {
				t.Errorf("updates = %d, want %d", updates, tt.wantUpdates)
			}
		})
	}
}

func TestRunTooManyRetriesWrapsCause(t *testing.T) {
	rec := recording.New(recording.WithFrameErrors(gpucore.ErrSurfaceLost))
	e := newTestEngine(t, rec, WithMaxRetries(0))
	err := e.Run(context.Background(), 1, nil)
	if !errors.Is(err, ErrTooManyRetries) || !errors.Is(err, gpucore.ErrSurfaceLost) {
		t.Errorf("Run() error = %v, want ErrTooManyRetries wrapping ErrSurfaceLost", err)
	}
}

func TestRunUpdateError(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)
	errStop := errors.New("stop")
	err := e.Run(context.Background(), 5, func(*Engine, float32) error { return errStop })
	if !errors.Is(err, errStop) {
		t.Errorf("Run() error = %v, want %v", err, errStop)
	}
	if rec.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", rec.FrameCount())
	}
}

func TestRunUntilCanceled(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := 0
	err := e.Run(ctx, 0, func(*Engine, float32) error {
		updates++
		if updates == 3 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if rec.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", rec.FrameCount())
	}
}

func TestRunAdvancesClock(t *testing.T) {
	rec := recording.New()
	clock := NewClock()
	e := newTestEngine(t, rec, WithClock(clock))

	now := time.Unix(100, 0)
	e.now = func() time.Time {
		now = now.Add(16 * time.Millisecond)
		return now
	}
	var dts []float32
	if err := e.Run(context.Background(), 3, func(_ *Engine, dt float32) error {
		dts = append(dts, dt)
		return nil
	}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []float32{0, 0.016, 0.016}
	for i := range want {
		if !mgl32.FloatEqualThreshold(dts[i], want[i], 1e-6) {
			t.Errorf("dt[%d] = %v, want %v", i, dts[i], want[i])
		}
	}
	if e.Clock() != clock || !mgl32.FloatEqualThreshold(clock.Total, 0.032, 1e-6) {
		t.Errorf("clock total = %v, want 0.032", clock.Total)
	}
}

func TestRemoveShaderRemovesMaterials(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)
	bi := e.Builtins()

	if !e.RemoveShader(bi.Sprite) {
		t.Fatal("RemoveShader() = false")
	}
	if e.Resources().Materials.Contains(bi.SpriteWhite) {
		t.Error("material of removed shader still live")
	}
	if !e.Resources().Materials.Contains(bi.UnlitWhite) {
		t.Error("unrelated material removed")
	}
	if e.RemoveShader(bi.Sprite) {
		t.Error("second RemoveShader() = true")
	}
}

func TestRemoveResources(t *testing.T) {
	rec := recording.New()
	e := newTestEngine(t, rec)

	mesh, err := e.CreateMesh("quad", primitives.Quad())
	if err != nil {
		t.Fatal(err)
	}
	buffers := rec.LiveBuffers()
	if !e.RemoveMesh(mesh) || e.RemoveMesh(mesh) {
		t.Error("RemoveMesh() should succeed once")
	}
	if rec.LiveBuffers() != buffers-2 {
		t.Errorf("LiveBuffers() = %d, want %d", rec.LiveBuffers(), buffers-2)
	}

	tex, err := e.CreateTexture("red", 1, 1, []byte{255, 0, 0, 255})
	if err != nil {
		t.Fatal(err)
	}
	mat, err := e.CreateMaterial(e.Builtins().UnlitTextured, tex)
	if err != nil {
		t.Fatal(err)
	}
	if !e.RemoveMaterial(mat) || !e.RemoveTexture(tex) {
		t.Error("RemoveMaterial/RemoveTexture() = false")
	}
}

func TestCreateTextureSizeMismatch(t *testing.T) {
	e := newTestEngine(t, recording.New())
	if _, err := e.CreateTexture("bad", 2, 2, []byte{1, 2, 3, 4}); err == nil {
		t.Error("CreateTexture() accepted short texel data")
	}
}

func TestCreateMaterialInvalidHandlePanics(t *testing.T) {
	e := newTestEngine(t, recording.New())
	defer func() {
		if recover() == nil {
			t.Error("CreateMaterial() with a stale shader did not panic")
		}
	}()
	bi := e.Builtins()
	e.RemoveShader(bi.Sprite)
	_, _ = e.CreateMaterial(bi.Sprite, bi.White)
}

func TestClose(t *testing.T) {
	rec := recording.New()
	e, err := New(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if rec.LiveBuffers() != 0 || rec.LiveBindGroups() != 0 || rec.LiveTextures() != 0 {
		t.Errorf("after Close: %d buffers, %d bind groups, %d textures live",
			rec.LiveBuffers(), rec.LiveBindGroups(), rec.LiveTextures())
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := e.Frame(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close error = %v, want ErrClosed", err)
	}
	if _, err := e.CreateMesh("quad", primitives.Quad()); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateMesh() after Close error = %v, want ErrClosed", err)
	}
}
