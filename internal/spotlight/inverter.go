package spotlight

import (
	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/geom"
)

// GeometryProvider measures UI elements for the proximity query. ok is false
// when the element cannot be measured, e.g. it is not laid out yet.
type GeometryProvider interface {
	BoundingBox(key string) (rect r2.Rect, ok bool)
}

// GeometryFunc adapts a function to GeometryProvider.
type GeometryFunc func(key string) (r2.Rect, bool)

// BoundingBox calls f(key).
func (f GeometryFunc) BoundingBox(key string) (r2.Rect, bool) {
	return f(key)
}

// ProximityInverter decides, per registered element, whether the reveal
// region overlaps it.
type ProximityInverter struct {
	geometry GeometryProvider
	keys     []string
	inverted map[string]bool
}

// NewProximityInverter creates an inverter measuring elements through geometry.
func NewProximityInverter(geometry GeometryProvider) *ProximityInverter {
	return &ProximityInverter{
		geometry: geometry,
		inverted: make(map[string]bool),
	}
}

// Register adds an element to the poll set. Registering twice is a no-op.
func (p *ProximityInverter) Register(key string) {
	if _, ok := p.inverted[key]; ok {
		return
	}
	p.keys = append(p.keys, key)
	p.inverted[key] = false
}

// Keys returns the registered element keys in registration order.
func (p *ProximityInverter) Keys() []string {
	return p.keys
}

// Poll re-measures every element and recomputes its flag against the cursor.
func (p *ProximityInverter) Poll(cursor Cursor) {
	for _, key := range p.keys {
		p.inverted[key] = p.test(key, cursor)
	}
}

func (p *ProximityInverter) test(key string, cursor Cursor) bool {
	if p.geometry == nil {
		return false
	}
	rect, ok := p.geometry.BoundingBox(key)
	if !ok {
		return false
	}
	return Overlaps(rect, cursor.Point(), cursor.Radius)
}

// Inverted returns the flag computed on the last poll. Unknown keys are
// never inverted.
func (p *ProximityInverter) Inverted(key string) bool {
	return p.inverted[key]
}

// Flags returns a copy of every flag.
func (p *ProximityInverter) Flags() map[string]bool {
	out := make(map[string]bool, len(p.inverted))
	for k, v := range p.inverted {
		out[k] = v
	}
	return out
}

// Overlaps reports whether a circle of radius around center overlaps rect,
// using the distance to the closest point of the rectangle.
func Overlaps(rect r2.Rect, center r2.Point, radius float64) bool {
	return geom.CircleTouchesRect(center, radius, rect)
}
