// Package spotlight implements the pointer-reactive animation engine behind
// the hero banner: cursor smoothing, the echo trail, the grid field and the
// label inversion query, all advanced by a single render loop.
package spotlight

import "github.com/golang/geo/r2"

// OffscreenDefault is where the pointer is assumed to be before the first
// input arrives.
var OffscreenDefault = r2.Point{X: -300, Y: -300}

// PointerTracker holds the latest raw pointer position in viewport space.
// Every input event overwrites it; there is no history.
type PointerTracker struct {
	raw r2.Point
}

// NewPointerTracker creates a tracker parked at OffscreenDefault.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{raw: OffscreenDefault}
}

// Move records a pointer-move event.
func (t *PointerTracker) Move(x, y float64) {
	t.raw = r2.Point{X: x, Y: y}
}

// TouchStart records the first contact of a touch.
func (t *PointerTracker) TouchStart(x, y float64) {
	t.raw = r2.Point{X: x, Y: y}
}

// TouchMove records a touch contact moving.
func (t *PointerTracker) TouchMove(x, y float64) {
	t.raw = r2.Point{X: x, Y: y}
}

// Raw returns the latest raw position.
func (t *PointerTracker) Raw() r2.Point {
	return t.raw
}
