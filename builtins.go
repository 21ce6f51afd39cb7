package g3d

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/resource"
)

//go:embed shaders/unlit.wgsl
var unlitWGSL string

//go:embed shaders/sprite.wgsl
var spriteWGSL string

// Builtins are the resources every Engine creates at startup.
type Builtins struct {
	// UnlitTextured draws opaque geometry with depth writes.
	UnlitTextured resource.ShaderID
	// Sprite alpha blends and is drawn back to front after opaque shaders.
	Sprite resource.ShaderID
	// White is a 1x1 opaque white texture.
	White resource.TextureID

	// UnlitWhite and SpriteWhite bind White to each shader, so entities
	// are colored by their instance color alone.
	UnlitWhite  resource.MaterialID
	SpriteWhite resource.MaterialID
}

// targetFormats is implemented by backends that render into fixed
// color and depth formats.
type targetFormats interface {
	ColorFormat() gputypes.TextureFormat
	DepthFormat() gputypes.TextureFormat
}

// formats returns the backend's target formats, or BGRA8Unorm color with
// Depth24Plus depth for backends that do not report them.
func (e *Engine) formats() (color, depth gputypes.TextureFormat) {
	if tf, ok := e.backend.(targetFormats); ok {
		return tf.ColorFormat(), tf.DepthFormat()
	}
	return gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatDepth24Plus
}

func (e *Engine) createBuiltins() (err error) {
	var bi Builtins
	if bi.UnlitTextured, err = e.CreateShader(resource.ShaderDesc{
		Label:  "unlit_textured",
		Source: unlitWGSL,
	}); err != nil {
		return fmt.Errorf("g3d: builtin shader: %w", err)
	}
	alpha := gputypes.BlendStateAlpha()
	if bi.Sprite, err = e.CreateShader(resource.ShaderDesc{
		Label:            "sprite",
		Source:           spriteWGSL,
		Blend:            &alpha,
		RequiresOrdering: true,
	}); err != nil {
		return fmt.Errorf("g3d: builtin shader: %w", err)
	}
	if bi.White, err = e.CreateTexture("white", 1, 1, []byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		return fmt.Errorf("g3d: builtin texture: %w", err)
	}
	if bi.UnlitWhite, err = e.CreateMaterial(bi.UnlitTextured, bi.White); err != nil {
		return fmt.Errorf("g3d: builtin material: %w", err)
	}
	if bi.SpriteWhite, err = e.CreateMaterial(bi.Sprite, bi.White); err != nil {
		return fmt.Errorf("g3d: builtin material: %w", err)
	}
	e.builtins = bi
	return nil
}
