package g3d

import "time"

// Clock tracks scaled game time and wall-clock time between frames.
//
// Game time runs TimeScale times as fast as real time. When MaxFrameTime
// is positive a longer frame counts as MaxFrameTime of game time, so game
// time falls behind real time instead of jumping.
type Clock struct {
	// Elapsed is the game time of the last frame in seconds.
	Elapsed float32
	// Total is the game time since the last Reset in seconds.
	Total float32
	// RealElapsed is the wall-clock duration of the last frame in seconds.
	RealElapsed float32
	// RealTotal is the wall-clock time since the last Reset in seconds.
	RealTotal float32

	TimeScale    float32
	MaxFrameTime time.Duration

	start, last time.Time
}

// NewClock returns a clock with unit time scale and no frame clamp.
func NewClock() *Clock {
	return &Clock{TimeScale: 1}
}

// Tick advances the clock to now and returns Elapsed. The first Tick
// starts the clock and returns zero.
func (c *Clock) Tick(now time.Time) float32 {
	if c.last.IsZero() {
		c.start, c.last = now, now
		c.Elapsed, c.RealElapsed = 0, 0
		return 0
	}
	wall := now.Sub(c.last)
	if wall < 0 {
		wall = 0
	}
	c.last = now
	c.RealElapsed = float32(wall.Seconds())
	c.RealTotal = float32(now.Sub(c.start).Seconds())

	game := wall
	if c.MaxFrameTime > 0 && game > c.MaxFrameTime {
		game = c.MaxFrameTime
	}
	c.Elapsed = float32(game.Seconds()) * c.TimeScale
	c.Total += c.Elapsed
	return c.Elapsed
}

// Reset zeroes Total and RealTotal, counting from now.
func (c *Clock) Reset(now time.Time) {
	c.Total, c.RealTotal = 0, 0
	c.start = now
	if c.last.IsZero() {
		c.last = now
	}
}
