package config

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/transform"
)

// Level parses LogLevel. An empty level is Info.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}

// SceneCamera converts the camera for a target of the configured size.
func (c *Config) SceneCamera() scene.Camera {
	cc := c.Camera
	cam := scene.DefaultCamera()
	cam.Eye = mgl32.Vec3(cc.Eye)
	cam.Target = mgl32.Vec3(cc.Target)
	if cc.Up != ([3]float32{}) {
		cam.Up = mgl32.Vec3(cc.Up)
	}
	if c.Height > 0 {
		cam.Aspect = float32(c.Width) / float32(c.Height)
	}
	near, far := cc.Near, cc.Far
	if near <= 0 {
		near = 0.01
	}
	if far <= near {
		far = 1000
	}
	switch cc.Projection {
	case "orthographic":
		h := cc.Height
		if h <= 0 {
			h = 2
		}
		cam.Projection = scene.Orthographic{Height: h, Near: near, Far: far}
	default:
		fov := cc.FovY
		if fov <= 0 {
			fov = 60
		}
		cam.Projection = scene.Perspective{FovY: mgl32.DegToRad(fov), Near: near, Far: far}
	}
	cam.ClearColor = gputypes.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
	return cam
}

// Transform returns the entity's local transform.
func (e *EntityConfig) Transform() transform.Transform {
	r := e.Rotation
	return transform.New(mgl32.Vec3(e.Position), transform.FromEulerDegrees(r[0], r[1], r[2]), mgl32.Vec3(e.Scale))
}

// Properties returns the entity's instance properties. The matrix is
// left for the scene to resolve.
func (e *EntityConfig) Properties() scene.InstanceProperties {
	return scene.DefaultInstanceProperties().
		WithColor(mgl32.Vec4(e.Color)).
		WithVisible(!e.Hidden)
}
