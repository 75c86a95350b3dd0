package spotlight

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/geom"
)

// settleEpsilon is the per-axis distance under which the smoothed position
// snaps onto its target.
const settleEpsilon = 0.001

// Cursor is the smoothed cursor every reactive layer reads during a tick.
// Radius stays within [base, base+cap] and Speed is never negative.
type Cursor struct {
	X, Y   float64
	Radius float64
	Speed  float64
}

// Point returns the cursor position.
func (c Cursor) Point() r2.Point {
	return r2.Point{X: c.X, Y: c.Y}
}

// Smooth moves current a fraction ease of the way toward target. With ease
// in (0,1) this is a contraction, so repeated application converges without
// overshoot.
func Smooth(current, target r2.Point, ease float64) r2.Point {
	next := current.Add(target.Sub(current).Mul(ease))
	if math.Abs(target.X-next.X) < settleEpsilon && math.Abs(target.Y-next.Y) < settleEpsilon {
		return target
	}
	return next
}

// CursorSmoother exponentially smooths the raw pointer and measures how far
// the raw pointer moved since the previous tick.
type CursorSmoother struct {
	ease    float64
	pos     r2.Point
	prevRaw r2.Point
	speed   float64
}

// NewCursorSmoother creates a smoother parked at OffscreenDefault.
func NewCursorSmoother(ease float64) *CursorSmoother {
	return &CursorSmoother{
		ease:    ease,
		pos:     OffscreenDefault,
		prevRaw: OffscreenDefault,
	}
}

// Step advances one tick toward raw and returns the new smoothed position
// and the raw speed. Speed comes from raw samples only, so it reacts to a
// sudden jump immediately instead of lagging behind the smoothing.
func (s *CursorSmoother) Step(raw r2.Point) (r2.Point, float64) {
	s.pos = Smooth(s.pos, raw, s.ease)
	s.speed = geom.Distance(raw, s.prevRaw)
	s.prevRaw = raw
	return s.pos, s.speed
}

// Reset snaps the smoothed position and the raw history to p, e.g. when a
// touch lands so the cursor does not fly in from a stale position.
func (s *CursorSmoother) Reset(p r2.Point) {
	s.pos = p
	s.prevRaw = p
	s.speed = 0
}

// Position returns the current smoothed position.
func (s *CursorSmoother) Position() r2.Point {
	return s.pos
}

// Speed returns the raw speed measured on the last tick.
func (s *CursorSmoother) Speed() float64 {
	return s.speed
}

// RadiusModulator maps speed to the interaction radius.
type RadiusModulator struct {
	Base float64 // Device-class radius
	Gain float64 // Radius px added per px of speed
	Cap  float64 // Maximum growth above Base
}

// Radius returns Base + min(speed*Gain, Cap), clamped to [Base, Base+Cap].
// Negative and NaN speeds yield Base.
func (m RadiusModulator) Radius(speed float64) float64 {
	if math.IsNaN(speed) || speed < 0 {
		return m.Base
	}
	return geom.Clamp(m.Base+math.Min(speed*m.Gain, m.Cap), m.Base, m.Base+m.Cap)
}

// ParallaxFor returns the image translation for a raw pointer position:
// the pointer's offset from the viewport center mapped to
// [-strength, strength] on each axis, opposite to the pointer.
func ParallaxFor(raw r2.Point, width, height, strength float64) r2.Point {
	width = math.Max(width, 1)
	height = math.Max(height, 1)
	cx := geom.Clamp((raw.X/width-0.5)*2, -1, 1)
	cy := geom.Clamp((raw.Y/height-0.5)*2, -1, 1)
	return r2.Point{X: -cx * strength, Y: -cy * strength}
}
