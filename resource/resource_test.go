package resource

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/recording"
)

const testWGSL = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"

func newTestShader(t *testing.T, b gpucore.Backend) Shader {
	t.Helper()
	sh, err := NewShader(b, ShaderDesc{Label: "test", Source: testWGSL, DepthFormat: gputypes.TextureFormatDepth24Plus})
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	return sh
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		size, align, want uint64
	}{
		{96, 256, 256},
		{96, 64, 128},
		{96, 32, 96},
		{256, 256, 256},
		{257, 256, 512},
		{96, 0, 96},
	}
	for _, tt := range tests {
		if got := AlignTo(tt.size, tt.align); got != tt.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tt.size, tt.align, got, tt.want)
		}
	}
}

func TestEntityUniformsLayout(t *testing.T) {
	u := EntityUniforms{
		Model:    mgl32.Translate3D(1, 2, 3),
		Color:    mgl32.Vec4{0.1, 0.2, 0.3, 0.4},
		UVOffset: mgl32.Vec2{0.5, 0.25},
		UVScale:  mgl32.Vec2{2, 4},
	}
	data := u.Bytes()
	if len(data) != EntityUniformsSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(data), EntityUniformsSize)
	}
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])) }
	checks := []struct {
		word int
		want float32
	}{
		{12, 1}, {13, 2}, {14, 3}, {15, 1}, // translation column
		{16, 0.1}, {19, 0.4}, // color
		{20, 0.5}, {21, 0.25}, // uv offset
		{22, 2}, {23, 4}, // uv scale
	}
	for _, c := range checks {
		if got := f(c.word); got != c.want {
			t.Errorf("word %d = %v, want %v", c.word, got, c.want)
		}
	}
	if n := len(CameraUniforms{ViewProj: mgl32.Ident4()}.Bytes()); n != CameraUniformsSize {
		t.Errorf("len(CameraUniforms.Bytes()) = %d, want %d", n, CameraUniformsSize)
	}
}

func TestEntityUniformStoreGrowth(t *testing.T) {
	b := recording.New()
	sh := newTestShader(t, b)
	store := sh.Entities

	if store.Capacity() != InitialEntityCapacity {
		t.Fatalf("initial Capacity() = %d, want %d", store.Capacity(), InitialEntityCapacity)
	}
	if store.Alignment() != 256 {
		t.Fatalf("Alignment() = %d, want 256", store.Alignment())
	}

	steps := []struct {
		count    int
		wantCap  int
		wantGrow bool
	}{
		{10, 32, false},
		{40, 128, true},
		{100, 256, true},
		{33, 256, false},
	}
	prev := store.Capacity()
	for _, s := range steps {
		grown, err := store.EnsureCapacity(b, s.count)
		if err != nil {
			t.Fatalf("EnsureCapacity(%d) error = %v", s.count, err)
		}
		if grown != s.wantGrow {
			t.Errorf("EnsureCapacity(%d) grown = %v, want %v", s.count, grown, s.wantGrow)
		}
		c := store.Capacity()
		if c != s.wantCap {
			t.Errorf("EnsureCapacity(%d) capacity = %d, want %d", s.count, c, s.wantCap)
		}
		if c < 2*s.count || c < prev {
			t.Errorf("capacity %d violates >= 2*%d and >= previous %d", c, s.count, prev)
		}
		data, ok := b.BufferData(store.Buffer())
		if !ok || uint64(len(data)) != uint64(c)*store.Alignment() {
			t.Errorf("buffer size = %d, want %d", len(data), uint64(c)*store.Alignment())
		}
		prev = c
	}

	// camera + entity buffers only; old entity buffers were released.
	if got := b.LiveBuffers(); got != 2 {
		t.Errorf("LiveBuffers() = %d, want 2", got)
	}
}

func TestEntityUniformStoreWrite(t *testing.T) {
	b := recording.New()
	sh := newTestShader(t, b)
	store := sh.Entities

	us := []EntityUniforms{
		{Model: mgl32.Translate3D(0, 0, 0), Color: mgl32.Vec4{1, 1, 1, 1}},
		{Model: mgl32.Translate3D(1, 0, 0), Color: mgl32.Vec4{1, 1, 1, 1}},
		{Model: mgl32.Translate3D(2, 0, 0), Color: mgl32.Vec4{1, 1, 1, 1}},
	}
	if err := store.WriteAll(b, us); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	data, _ := b.BufferData(store.Buffer())
	for i := range us {
		off := int(store.Offset(i))
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[off+12*4:]))
		if x != float32(i) {
			t.Errorf("record %d translation x = %v, want %d", i, x, i)
		}
	}

	if err := store.Write(b, 5, us[2]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if store.Offset(5) != 5*256 {
		t.Errorf("Offset(5) = %d, want %d", store.Offset(5), 5*256)
	}
	if err := store.Write(b, store.Capacity(), us[0]); err == nil {
		t.Error("Write() past capacity: want error")
	}
}

func TestShaderLayouts(t *testing.T) {
	b := recording.New()
	sh, err := NewShader(b, ShaderDesc{Label: "sprite", Source: testWGSL, RequiresOrdering: true,
		Blend: &gputypes.BlendState{}})
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	p, ok := b.Pipeline(sh.Pipeline)
	if !ok {
		t.Fatal("pipeline not created")
	}
	if len(p.BindGroupLayouts) != 3 {
		t.Fatalf("pipeline has %d layouts, want 3", len(p.BindGroupLayouts))
	}
	if p.DepthWrite {
		t.Error("ordered shader pipeline writes depth")
	}
	if p.VertexEntry != "vs_main" || p.FragmentEntry != "fs_main" {
		t.Errorf("entries = %q/%q", p.VertexEntry, p.FragmentEntry)
	}
	if p.VertexBuffers[0].ArrayStride != VertexStride {
		t.Errorf("ArrayStride = %d, want %d", p.VertexBuffers[0].ArrayStride, VertexStride)
	}
	if !EntityLayoutEntries()[0].Buffer.HasDynamicOffset {
		t.Error("entity layout lacks dynamic offset")
	}
}

func TestNewShaderReleasesOnError(t *testing.T) {
	b := recording.New()
	if _, err := NewShader(b, ShaderDesc{Label: "empty"}); err == nil {
		t.Fatal("NewShader(empty source): want error")
	}
	if b.LiveBuffers() != 0 || b.LiveBindGroups() != 0 {
		t.Errorf("leaked %d buffers, %d bind groups", b.LiveBuffers(), b.LiveBindGroups())
	}
}

func TestTableGetPanicsOnStaleHandle(t *testing.T) {
	tbl := NewTable[MeshID, Mesh]("mesh")
	id := tbl.Insert(Mesh{Label: "quad"})
	if got := tbl.Get(id).Label; got != "quad" {
		t.Fatalf("Get().Label = %q", got)
	}
	tbl.Remove(id)

	if _, ok := tbl.Lookup(id); ok {
		t.Error("Lookup(stale) ok = true")
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Get(stale) did not panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "invalid mesh handle") {
			t.Errorf("panic = %v, want invalid mesh handle", r)
		}
	}()
	tbl.Get(id)
}

func TestMeshUpload(t *testing.T) {
	b := recording.New()
	data := MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint16{0, 1, 2},
	}
	m, err := NewMesh(b, "tri", data)
	if err != nil {
		t.Fatalf("NewMesh() error = %v", err)
	}
	if m.IndexCount != 3 {
		t.Errorf("IndexCount = %d, want 3", m.IndexCount)
	}
	vb, _ := b.BufferData(m.VertexBuffer)
	if len(vb) != 3*VertexStride {
		t.Errorf("vertex bytes = %d, want %d", len(vb), 3*VertexStride)
	}
	ib, _ := b.BufferData(m.IndexBuffer)
	if len(ib) != 8 {
		t.Errorf("index bytes = %d, want 8 (padded)", len(ib))
	}

	bad := []MeshData{
		{},
		{Positions: data.Positions, Indices: []uint16{0, 1, 3}},
		{Positions: data.Positions, Indices: []uint16{0, 1}},
		{Positions: data.Positions, UVs: data.UVs[:1], Indices: data.Indices},
	}
	for i, d := range bad {
		if _, err := NewMesh(b, "bad", d); err == nil {
			t.Errorf("case %d: NewMesh() want error", i)
		}
	}
}

func TestTexelsFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.NRGBA{R: 255, A: 255})
	img.Set(11, 10, color.NRGBA{B: 255, A: 255})

	w, h, texels := TexelsFromImage(img)
	if w != 2 || h != 1 {
		t.Fatalf("size = %dx%d, want 2x1", w, h)
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	if string(texels) != string(want) {
		t.Errorf("texels = %v, want %v", texels, want)
	}
}

func TestFitTexels(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 400, 100))
	got := FitTexels(big, 200).Bounds()
	if got.Dx() != 200 || got.Dy() != 50 {
		t.Errorf("FitTexels() = %v, want 200x50", got)
	}
	small := image.NewRGBA(image.Rect(0, 0, 16, 16))
	if FitTexels(small, 200) != image.Image(small) {
		t.Error("FitTexels() changed an image that already fits")
	}
}

func TestMaterialBindsTexture(t *testing.T) {
	b := recording.New()
	res := NewTables()
	shID := res.Shaders.Insert(newTestShader(t, b))
	tex, err := NewTexture(b, "white", 1, 1, []byte{255, 255, 255, 255})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	texID := res.Textures.Insert(tex)

	m, err := NewMaterial(b, res.Shaders, res.Textures, shID, texID)
	if err != nil {
		t.Fatalf("NewMaterial() error = %v", err)
	}
	desc, ok := b.BindGroup(m.BindGroup)
	if !ok || len(desc.Entries) != 2 || desc.Entries[0].Texture != tex.Handle || desc.Entries[1].Sampler != tex.Sampler {
		t.Errorf("material bind group = %+v", desc)
	}
	res.Materials.Insert(m)

	res.Destroy(b)
	if b.LiveBuffers() != 0 || b.LiveTextures() != 0 || b.LiveBindGroups() != 0 {
		t.Errorf("after Destroy: %d buffers, %d textures, %d bind groups live",
			b.LiveBuffers(), b.LiveTextures(), b.LiveBindGroups())
	}
}
