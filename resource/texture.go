package resource

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/g3d/gpucore"
)

// Texture is an RGBA8 2D texture with its sampler.
type Texture struct {
	Label   string
	Handle  gpucore.TextureID
	Sampler gpucore.SamplerID
	Width   uint32
	Height  uint32
}

// NewTexture uploads tightly packed RGBA8 texels and creates a linear
// repeating sampler for them.
func NewTexture(b gpucore.Backend, label string, width, height uint32, rgba []byte) (Texture, error) {
	if want := int(width) * int(height) * 4; len(rgba) != want {
		return Texture{}, fmt.Errorf("texture %q: got %d bytes, want %d for %dx%d", label, len(rgba), want, width, height)
	}
	tex, err := b.CreateTexture(gpucore.TextureDesc{
		Label:  label,
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}, rgba)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %q: %w", label, err)
	}
	sampler, err := b.CreateSampler(gpucore.SamplerDesc{
		Label:       label + " sampler",
		AddressMode: gputypes.AddressModeRepeat,
		MagFilter:   gputypes.FilterModeLinear,
		MinFilter:   gputypes.FilterModeLinear,
	})
	if err != nil {
		b.DestroyTexture(tex)
		return Texture{}, fmt.Errorf("texture %q: sampler: %w", label, err)
	}
	return Texture{Label: label, Handle: tex, Sampler: sampler, Width: width, Height: height}, nil
}

// NewTextureFromImage uploads any decoded image.
func NewTextureFromImage(b gpucore.Backend, label string, img image.Image) (Texture, error) {
	w, h, texels := TexelsFromImage(img)
	return NewTexture(b, label, w, h, texels)
}

// TexelsFromImage converts img to tightly packed RGBA8 texels with the
// image's top-left at texel 0.
func TexelsFromImage(img image.Image) (width, height uint32, texels []byte) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*w && bounds.Min == (image.Point{}) {
		return uint32(w), uint32(h), append([]byte(nil), rgba.Pix[:4*w*h]...)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return uint32(w), uint32(h), dst.Pix
}

// FitTexels downsamples img so neither side exceeds maxSize, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func FitTexels(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Destroy releases the texture and sampler.
func (t Texture) Destroy(b gpucore.Backend) {
	b.DestroySampler(t.Sampler)
	b.DestroyTexture(t.Handle)
}
