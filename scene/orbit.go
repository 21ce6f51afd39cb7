package scene

// OrbitInput is the directional input for one OrbitController step.
type OrbitInput struct {
	Forward, Back, Left, Right bool
}

// OrbitController moves a camera toward, away from and around its target.
// Speed is in world units per second.
type OrbitController struct {
	Speed float32
}

// Update moves cam by Speed*elapsed. Forward never moves the eye onto or
// past the target; Left and Right keep the distance to the target.
func (o OrbitController) Update(cam *Camera, in OrbitInput, elapsed float32) {
	toTarget := cam.Target.Sub(cam.Eye)
	dist := toTarget.Len()
	if dist == 0 {
		return
	}
	forward := toTarget.Mul(1 / dist)
	delta := o.Speed * elapsed

	if in.Forward && dist > delta {
		cam.Eye = cam.Eye.Add(forward.Mul(delta))
	}
	if in.Back {
		cam.Eye = cam.Eye.Sub(forward.Mul(delta))
	}

	right := forward.Cross(cam.Up)
	dist = cam.Target.Sub(cam.Eye).Len()
	if in.Right {
		cam.Eye = cam.Target.Sub(forward.Sub(right.Mul(delta)).Normalize().Mul(dist))
	}
	if in.Left {
		cam.Eye = cam.Target.Sub(forward.Add(right.Mul(delta)).Normalize().Mul(dist))
	}
}
