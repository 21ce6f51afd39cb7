package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitController(t *testing.T) {
	o := OrbitController{Speed: 2}
	tests := []struct {
		name     string
		in       OrbitInput
		elapsed  float32
		wantDist float32
	}{
		{"idle", OrbitInput{}, 1, 4},
		{"forward", OrbitInput{Forward: true}, 0.5, 3},
		{"forward stops short of target", OrbitInput{Forward: true}, 3, 4},
		{"back", OrbitInput{Back: true}, 0.5, 5},
		{"right keeps distance", OrbitInput{Right: true}, 0.1, 4},
		{"left keeps distance", OrbitInput{Left: true}, 0.1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := DefaultCamera()
			cam.Eye = mgl32.Vec3{0, 0, 4}
			o.Update(&cam, tt.in, tt.elapsed)
			if got := cam.Eye.Sub(cam.Target).Len(); !mgl32.FloatEqualThreshold(got, tt.wantDist, 1e-4) {
				t.Errorf("distance = %v, want %v", got, tt.wantDist)
			}
		})
	}
}

func TestOrbitControllerDirection(t *testing.T) {
	cam := DefaultCamera()
	cam.Eye = mgl32.Vec3{0, 0, 4}
	OrbitController{Speed: 1}.Update(&cam, OrbitInput{Right: true}, 0.1)
	// Looking down -Z with +Y up, right is +X.
	if cam.Eye.X() <= 0 {
		t.Errorf("Right moved eye to %v, want positive X", cam.Eye)
	}
	if cam.Eye.Y() != 0 {
		t.Errorf("Right moved eye off the horizontal plane: %v", cam.Eye)
	}
}

func TestOrbitControllerEyeAtTarget(t *testing.T) {
	cam := DefaultCamera()
	cam.Eye = cam.Target
	OrbitController{Speed: 1}.Update(&cam, OrbitInput{Forward: true, Right: true}, 1)
	if cam.Eye != cam.Target {
		t.Errorf("Update() moved a degenerate camera to %v", cam.Eye)
	}
}
