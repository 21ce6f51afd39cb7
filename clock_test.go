package g3d

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClockTick(t *testing.T) {
	tests := []struct {
		name        string
		scale       float32
		maxFrame    time.Duration
		frame       time.Duration
		wantElapsed float32
	}{
		{"unit scale", 1, 0, 20 * time.Millisecond, 0.02},
		{"double speed", 2, 0, 20 * time.Millisecond, 0.04},
		{"paused", 0, 0, 20 * time.Millisecond, 0},
		{"clamped", 1, 50 * time.Millisecond, 200 * time.Millisecond, 0.05},
		{"clamped and scaled", 0.5, 50 * time.Millisecond, 200 * time.Millisecond, 0.025},
		{"under clamp", 1, 50 * time.Millisecond, 10 * time.Millisecond, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock()
			c.TimeScale = tt.scale
			c.MaxFrameTime = tt.maxFrame

			start := time.Unix(0, 0)
			if got := c.Tick(start); got != 0 {
				t.Fatalf("first Tick() = %v, want 0", got)
			}
			got := c.Tick(start.Add(tt.frame))
			if !mgl32.FloatEqualThreshold(got, tt.wantElapsed, 1e-6) {
				t.Errorf("Tick() = %v, want %v", got, tt.wantElapsed)
			}
			if c.Elapsed != got {
				t.Errorf("Elapsed = %v, want %v", c.Elapsed, got)
			}
			wall := float32(tt.frame.Seconds())
			if c.RealElapsed != wall || c.RealTotal != wall {
				t.Errorf("RealElapsed, RealTotal = %v, %v; want %v", c.RealElapsed, c.RealTotal, wall)
			}
		})
	}
}

func TestClockTotalAndReset(t *testing.T) {
	c := NewClock()
	now := time.Unix(10, 0)
	c.Tick(now)
	for range 4 {
		now = now.Add(250 * time.Millisecond)
		c.Tick(now)
	}
	if !mgl32.FloatEqualThreshold(c.Total, 1, 1e-6) || !mgl32.FloatEqualThreshold(c.RealTotal, 1, 1e-6) {
		t.Errorf("Total, RealTotal = %v, %v; want 1, 1", c.Total, c.RealTotal)
	}

	c.Reset(now)
	if c.Total != 0 || c.RealTotal != 0 {
		t.Errorf("after Reset: Total, RealTotal = %v, %v", c.Total, c.RealTotal)
	}
	now = now.Add(100 * time.Millisecond)
	c.Tick(now)
	if !mgl32.FloatEqualThreshold(c.RealTotal, 0.1, 1e-6) {
		t.Errorf("RealTotal after Reset = %v, want 0.1", c.RealTotal)
	}
}

func TestClockBackwardsTime(t *testing.T) {
	c := NewClock()
	now := time.Unix(10, 0)
	c.Tick(now)
	if got := c.Tick(now.Add(-time.Second)); got != 0 {
		t.Errorf("Tick() with earlier time = %v, want 0", got)
	}
}
