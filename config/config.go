// Package config loads demo scene descriptions from YAML or TOML.
//
// A file names the render target, the backend, the camera and a flat list
// of entities. Entities reference their parent by name, so a file can
// describe a hierarchy without IDs:
//
//	width: 640
//	height: 480
//	entities:
//	  - name: root
//	    mesh: cube
//	  - name: moon
//	    parent: root
//	    position: [2, 0, 0]
//	    scale: [0.25, 0.25, 0.25]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format int

const (
	// YAML is the default format.
	YAML Format = iota
	TOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Shader and mesh names accepted in EntityConfig.
const (
	ShaderOpaque = "opaque"
	ShaderSprite = "sprite"

	MeshQuad = "quad"
	MeshCube = "cube"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid")

// CameraConfig describes a look-at camera. Projection is "perspective"
// or "orthographic".
type CameraConfig struct {
	Eye        [3]float32 `yaml:"eye" toml:"eye"`
	Target     [3]float32 `yaml:"target" toml:"target"`
	Up         [3]float32 `yaml:"up" toml:"up"`
	Projection string     `yaml:"projection" toml:"projection"`
	// FovY is the vertical field of view in degrees.
	FovY float32 `yaml:"fov_y" toml:"fov_y"`
	// Height is the orthographic view height in world units.
	Height float32 `yaml:"height" toml:"height"`
	Near   float32 `yaml:"near" toml:"near"`
	Far    float32 `yaml:"far" toml:"far"`
}

// EntityConfig describes one entity. Rotation is Euler angles in degrees
// applied X, then Y, then Z.
type EntityConfig struct {
	Name     string     `yaml:"name" toml:"name"`
	Parent   string     `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Shader   string     `yaml:"shader,omitempty" toml:"shader,omitempty"`
	Mesh     string     `yaml:"mesh,omitempty" toml:"mesh,omitempty"`
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"`
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
	Color    [4]float32 `yaml:"color" toml:"color"`
	Hidden   bool       `yaml:"hidden,omitempty" toml:"hidden,omitempty"`
}

// Config is a demo description.
type Config struct {
	Width      uint32         `yaml:"width" toml:"width"`
	Height     uint32         `yaml:"height" toml:"height"`
	Frames     int            `yaml:"frames" toml:"frames"`
	Backend    string         `yaml:"backend" toml:"backend"`
	LogLevel   string         `yaml:"log_level" toml:"log_level"`
	Camera     CameraConfig   `yaml:"camera" toml:"camera"`
	ClearColor [4]float64     `yaml:"clear_color" toml:"clear_color"`
	Entities   []EntityConfig `yaml:"entities" toml:"entities"`
}

// Default returns an 800x600 recording-backend configuration with one
// cube in front of a perspective camera.
func Default() Config {
	return Config{
		Width:      800,
		Height:     600,
		Frames:     1,
		Backend:    "recording",
		LogLevel:   "info",
		Camera:     defaultCamera(),
		ClearColor: [4]float64{0, 0, 0, 1},
		Entities:   []EntityConfig{defaultEntity("cube")},
	}
}

func defaultCamera() CameraConfig {
	return CameraConfig{
		Eye:        [3]float32{0, 0, 2},
		Up:         [3]float32{0, 1, 0},
		Projection: "perspective",
		FovY:       60,
		Height:     2,
		Near:       0.01,
		Far:        1000,
	}
}

func defaultEntity(name string) EntityConfig {
	return EntityConfig{
		Name:   name,
		Shader: ShaderOpaque,
		Mesh:   MeshCube,
		Scale:  [3]float32{1, 1, 1},
		Color:  [4]float32{1, 1, 1, 1},
	}
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("config: unknown extension %q", filepath.Ext(path))
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result. Top-level
// fields the document omits keep their defaults. Unknown keys are errors.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	cfg.Entities = nil

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and leaves the defaults.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported format %v", format)
	}

	for i := range cfg.Entities {
		cfg.Entities[i].applyDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills omitted entity fields. A zero scale or a zero color
// is treated as omitted.
func (e *EntityConfig) applyDefaults() {
	if e.Shader == "" {
		e.Shader = ShaderOpaque
	}
	if e.Mesh == "" {
		e.Mesh = MeshQuad
	}
	if e.Scale == ([3]float32{}) {
		e.Scale = [3]float32{1, 1, 1}
	}
	if e.Color == ([4]float32{}) {
		e.Color = [4]float32{1, 1, 1, 1}
	}
}

// Validate reports the first problem found: a missing or duplicate
// entity name, an unknown shader, mesh or parent, a parent cycle, or an
// unusable target size or camera.
func (c *Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("%w: target size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames)
	}
	switch c.Camera.Projection {
	case "", "perspective", "orthographic":
	default:
		return fmt.Errorf("%w: camera projection %q", ErrInvalid, c.Camera.Projection)
	}
	if c.Camera.Eye == c.Camera.Target {
		return fmt.Errorf("%w: camera eye equals target", ErrInvalid)
	}

	parents := make(map[string]string, len(c.Entities))
	for i, e := range c.Entities {
		if e.Name == "" {
			return fmt.Errorf("%w: entity %d has no name", ErrInvalid, i)
		}
		if _, dup := parents[e.Name]; dup {
			return fmt.Errorf("%w: duplicate entity %q", ErrInvalid, e.Name)
		}
		parents[e.Name] = e.Parent
		switch e.Shader {
		case ShaderOpaque, ShaderSprite:
		default:
			return fmt.Errorf("%w: entity %q: unknown shader %q", ErrInvalid, e.Name, e.Shader)
		}
		switch e.Mesh {
		case MeshQuad, MeshCube:
		default:
			return fmt.Errorf("%w: entity %q: unknown mesh %q", ErrInvalid, e.Name, e.Mesh)
		}
	}
	for _, e := range c.Entities {
		if e.Parent != "" {
			if _, ok := parents[e.Parent]; !ok {
				return fmt.Errorf("%w: entity %q: unknown parent %q", ErrInvalid, e.Name, e.Parent)
			}
		}
		// Walking more steps than there are entities means a cycle.
		name := e.Name
		for steps := 0; parents[name] != ""; steps++ {
			if steps > len(c.Entities) {
				return fmt.Errorf("%w: entity %q: parent cycle", ErrInvalid, e.Name)
			}
			name = parents[name]
		}
	}
	return nil
}

// Ordered returns the entities sorted so every parent precedes its
// children, keeping file order otherwise. c must be valid.
func (c *Config) Ordered() []EntityConfig {
	out := make([]EntityConfig, 0, len(c.Entities))
	placed := make(map[string]bool, len(c.Entities))
	for len(out) < len(c.Entities) {
		for _, e := range c.Entities {
			if placed[e.Name] || (e.Parent != "" && !placed[e.Parent]) {
				continue
			}
			placed[e.Name] = true
			out = append(out, e)
		}
	}
	return out
}
