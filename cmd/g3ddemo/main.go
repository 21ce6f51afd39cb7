// Command g3ddemo builds a scene from a YAML or TOML description, renders
// a number of frames and prints draw statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/backend/wgpu"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/primitives"
	"github.com/gogpu/g3d/resource"
	"github.com/gogpu/g3d/scene"

	// Register the recording backend.
	_ "github.com/gogpu/g3d/recording"
)

// snapshotter is implemented by backends that can read back the last frame.
type snapshotter interface {
	Snapshot(ctx context.Context) (*image.RGBA, error)
}

func main() {
	var (
		path    = flag.String("config", "", "scene file (.yaml, .yml or .toml); empty uses the built-in scene")
		frames  = flag.Int("frames", -1, "frames to render; overrides the scene file when not negative")
		name    = flag.String("backend", "", "backend name; overrides the scene file")
		output  = flag.String("output", "", "write the last frame to this PNG file (wgpu backend only)")
		spin    = flag.Float64("spin", 0, "rotate root entities about Y by this many degrees per second")
		verbose = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *name != "" {
		cfg.Backend = *name
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, float32(*spin), *output); err != nil {
		log.Fatal(err)
	}
}

func openBackend(cfg config.Config) (gpucore.Backend, error) {
	if cfg.Backend == backend.BackendWGPU {
		b, err := wgpu.New(wgpu.WithTargetSize(cfg.Width, cfg.Height))
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return backend.Open(cfg.Backend)
}

func run(ctx context.Context, cfg config.Config, spin float32, output string) error {
	b, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("open backend %q: %w", cfg.Backend, err)
	}
	defer b.Destroy()

	e, err := g3d.New(b, g3d.WithCamera(cfg.SceneCamera()))
	if err != nil {
		return err
	}
	defer e.Close()

	roots, err := buildScene(e, cfg)
	if err != nil {
		return err
	}

	update := func(e *g3d.Engine, dt float32) error {
		if spin == 0 {
			return nil
		}
		q := mgl32.QuatRotate(mgl32.DegToRad(spin*dt), mgl32.Vec3{0, 1, 0})
		for _, id := range roots {
			t, ok := e.Scene().Transform(id)
			if ok {
				e.Scene().SetTransform(id, t.Rotated(q))
			}
		}
		return nil
	}
	if err := e.Run(ctx, cfg.Frames, update); err != nil {
		return err
	}

	st := e.Scene().LastStats()
	tot := e.Renderer().Totals()
	fmt.Printf("backend:    %s\n", b.Name())
	fmt.Printf("frames:     %d\n", e.Renderer().Frames())
	fmt.Printf("entities:   %d (%d drawn, %d depth sorted)\n", e.Scene().Len(), st.Entities, st.Transparent)
	fmt.Printf("shaders:    %d\n", st.Shaders)
	fmt.Printf("draws:      %d\n", tot.Draws)
	fmt.Printf("rebinds:    %d pipeline, %d material, %d mesh, %d offset\n",
		tot.PipelineSwitches, tot.MaterialBinds, tot.MeshBinds, tot.OffsetBinds)

	if output == "" {
		return nil
	}
	snap, ok := b.(snapshotter)
	if !ok {
		return fmt.Errorf("backend %q cannot write %s", b.Name(), output)
	}
	img, err := snap.Snapshot(ctx)
	if err != nil {
		return err
	}
	return savePNG(output, img)
}

// buildScene adds the configured entities and returns the root entities.
func buildScene(e *g3d.Engine, cfg config.Config) ([]scene.EntityID, error) {
	meshes := make(map[string]resource.MeshID, 2)
	for name, data := range map[string]resource.MeshData{
		config.MeshQuad: primitives.Quad(),
		config.MeshCube: primitives.Cube(),
	} {
		id, err := e.CreateMesh(name, data)
		if err != nil {
			return nil, err
		}
		meshes[name] = id
	}
	bi := e.Builtins()
	materials := map[string]resource.MaterialID{
		config.ShaderOpaque: bi.UnlitWhite,
		config.ShaderSprite: bi.SpriteWhite,
	}

	sc := e.Scene()
	ids := make(map[string]scene.EntityID, len(cfg.Entities))
	var roots []scene.EntityID
	for _, ec := range cfg.Ordered() {
		ent := scene.NewEntity(meshes[ec.Mesh], materials[ec.Shader])
		ent.InstanceProperties = ec.Properties()
		if ec.Parent == "" {
			id := sc.AddEntity(ec.Transform(), ent)
			ids[ec.Name] = id
			roots = append(roots, id)
			continue
		}
		ids[ec.Name] = sc.AddChild(ids[ec.Parent], ec.Transform(), ent)
	}
	return roots, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
