package atlas

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/scene"
)

func sheet() Atlas {
	return Atlas{Mesh: 1, Material: 2, TileWidth: 16, TileHeight: 8, Columns: 4, Rows: 2}
}

func TestUVOffsetScale(t *testing.T) {
	a := sheet()
	tests := []struct {
		index      int
		wantOffset mgl32.Vec2
	}{
		{0, mgl32.Vec2{0, 0}},
		{3, mgl32.Vec2{0.75, 0}},
		{4, mgl32.Vec2{0, 0.5}},
		{5, mgl32.Vec2{0.25, 0.5}},
	}
	for _, tt := range tests {
		offset, scale := a.UVOffsetScale(tt.index)
		if offset != tt.wantOffset {
			t.Errorf("UVOffsetScale(%d) offset = %v, want %v", tt.index, offset, tt.wantOffset)
		}
		if scale != (mgl32.Vec2{0.25, 0.5}) {
			t.Errorf("UVOffsetScale(%d) scale = %v, want [0.25 0.5]", tt.index, scale)
		}
	}
	if a.Len() != 8 {
		t.Errorf("Len() = %d, want 8", a.Len())
	}
}

func TestUVOffsetScaleEmptyGrid(t *testing.T) {
	offset, scale := Atlas{}.UVOffsetScale(3)
	if offset != (mgl32.Vec2{}) || scale != (mgl32.Vec2{1, 1}) {
		t.Errorf("UVOffsetScale() on empty grid = %v %v, want full texture", offset, scale)
	}
}

func TestInstanceProperties(t *testing.T) {
	a := sheet()
	tr, props := a.InstanceProperties(5, mgl32.Vec3{10, 20, 0}, 2)

	if tr.Scale != (mgl32.Vec3{32, 16, 1}) {
		t.Errorf("Scale = %v, want [32 16 1]", tr.Scale)
	}
	m := props.Matrix
	if m.At(0, 0) != 32 || m.At(1, 1) != 16 || m.Col(3) != (mgl32.Vec4{10, 20, 0, 1}) {
		t.Errorf("Matrix = %v", m)
	}
	if props.UVOffset != (mgl32.Vec2{0.25, 0.5}) || props.UVScale != (mgl32.Vec2{0.25, 0.5}) {
		t.Errorf("UV = %v %v", props.UVOffset, props.UVScale)
	}
	if !props.Visible || props.Color != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("props not based on defaults: %+v", props)
	}
}

func TestSpawnAndDraw(t *testing.T) {
	a := sheet()
	s := scene.New()
	id := a.Spawn(s, 1, mgl32.Vec3{1, 2, 3}, 1)

	e := s.Entity(id)
	if e == nil {
		t.Fatal("Spawn() entity missing")
	}
	if e.Mesh != a.Mesh || e.Material != a.Material {
		t.Errorf("entity = %+v", e)
	}
	if e.UVOffset != (mgl32.Vec2{0.25, 0}) {
		t.Errorf("UVOffset = %v, want [0.25 0]", e.UVOffset)
	}

	got, ok := s.Normalize(a.Draw(1, mgl32.Vec3{1, 2, 3}, 1))
	if !ok {
		t.Fatal("Normalize(Draw) = false")
	}
	if got.UVOffset != e.UVOffset || got.Matrix != e.Matrix {
		t.Errorf("Draw() normalized to %+v, want same placement as Spawn %+v", got, e)
	}
}
