package hero

import (
	"github.com/charmbracelet/harmonica"
	"github.com/golang/geo/r2"
)

// Ring spring: critically damped, settling in roughly a tenth of a second.
const (
	ringFrequency = 18.0
	ringDamping   = 1.0
)

// Follower trails a target point with a damped spring, one step per frame.
type Follower struct {
	spring harmonica.Spring
	pos    r2.Point
	vel    r2.Point
	placed bool
}

// NewFollower creates a follower stepped fps times per second.
func NewFollower(fps int) *Follower {
	return &Follower{spring: harmonica.NewSpring(harmonica.FPS(fps), ringFrequency, ringDamping)}
}

// Step advances the spring one frame toward target and returns the new
// position. The first step lands on the target.
func (f *Follower) Step(target r2.Point) r2.Point {
	if !f.placed {
		f.Snap(target)
		return f.pos
	}
	f.pos.X, f.vel.X = f.spring.Update(f.pos.X, f.vel.X, target.X)
	f.pos.Y, f.vel.Y = f.spring.Update(f.pos.Y, f.vel.Y, target.Y)
	return f.pos
}

// Snap places the follower on p at rest.
func (f *Follower) Snap(p r2.Point) {
	f.pos = p
	f.vel = r2.Point{}
	f.placed = true
}

// Position returns the current position.
func (f *Follower) Position() r2.Point {
	return f.pos
}
