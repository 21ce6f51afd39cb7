package primitives

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuad(t *testing.T) {
	q := Quad()
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !slices.Equal(q.Indices, []uint16{0, 1, 2, 0, 2, 3}) {
		t.Errorf("Indices = %v", q.Indices)
	}
	// Bottom-left corner samples the bottom-left texel (v = 1).
	if q.Positions[0] != (mgl32.Vec3{-0.5, -0.5, 0}) || q.UVs[0] != (mgl32.Vec2{0, 1}) {
		t.Errorf("vertex 0 = %v %v", q.Positions[0], q.UVs[0])
	}
}

func TestQuadWithOffsetScale(t *testing.T) {
	q := QuadWithOffsetScale(4, 2, mgl32.Vec2{1, -1})
	want := []mgl32.Vec3{{-1, -2, 0}, {3, -2, 0}, {3, 0, 0}, {-1, 0, 0}}
	if !slices.Equal(q.Positions, want) {
		t.Errorf("Positions = %v, want %v", q.Positions, want)
	}
}

func TestQuadUVs(t *testing.T) {
	got := QuadUVs(mgl32.Vec2{0.5, 0.25}, mgl32.Vec2{0.5, 0.25})
	want := []mgl32.Vec2{{0.5, 0.5}, {1, 0.5}, {1, 0.25}, {0.5, 0.25}}
	if !slices.Equal(got, want) {
		t.Errorf("QuadUVs() = %v, want %v", got, want)
	}
}

func TestExtendIndices(t *testing.T) {
	got := ExtendIndices([]uint16{0, 1, 2, 0, 2, 3}, 4)
	want := []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	if !slices.Equal(got, want) {
		t.Errorf("ExtendIndices() = %v, want %v", got, want)
	}
}

func TestCube(t *testing.T) {
	c := Cube()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(c.Positions) != 24 || len(c.Indices) != 36 {
		t.Fatalf("Cube() has %d vertices %d indices, want 24 and 36", len(c.Positions), len(c.Indices))
	}
	for i, p := range c.Positions {
		for axis := 0; axis < 3; axis++ {
			if p[axis] != 0.5 && p[axis] != -0.5 {
				t.Fatalf("vertex %d = %v not on the unit cube corners", i, p)
			}
		}
	}

	// Every triangle winds counter-clockwise seen from outside: its normal
	// points away from the center.
	for tri := 0; tri < len(c.Indices); tri += 3 {
		a, b, d := c.Positions[c.Indices[tri]], c.Positions[c.Indices[tri+1]], c.Positions[c.Indices[tri+2]]
		n := b.Sub(a).Cross(d.Sub(a))
		center := a.Add(b).Add(d).Mul(1.0 / 3)
		if n.Dot(center) <= 0 {
			t.Errorf("triangle %d faces inward: normal %v center %v", tri/3, n, center)
		}
	}
}
