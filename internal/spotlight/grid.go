package spotlight

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/geom"
)

// Axis identifies the orientation of a grid line.
type Axis int

const (
	Vertical   Axis = iota // Line at a fixed x
	Horizontal             // Line at a fixed y
)

// GridLine is one line of the line-mode grid for the current frame.
type GridLine struct {
	Axis   Axis
	Base   float64 // Rest position (x for vertical, y for horizontal)
	Shift  float64 // Drift of the whole grid, wrapped to one spacing
	Offset float64 // Wave displacement along the perpendicular axis
	Alpha  float64
}

// Position returns the drifted and displaced line position.
func (l GridLine) Position() float64 {
	return l.Base + l.Shift + l.Offset
}

// GridNode is one lattice point of the node-mode grid for the current frame.
type GridNode struct {
	BaseX, BaseY float64
	DX, DY       float64
	Alpha        float64
	Size         float64 // Ring radius in logical px
}

// Position returns the displaced node position.
func (n GridNode) Position() r2.Point {
	return r2.Point{X: n.BaseX + n.DX, Y: n.BaseY + n.DY}
}

// GridSettings configures a GridField.
type GridSettings struct {
	Mode          config.GridMode
	Spacing       float64
	Falloff       float64 // Line mode influence radius
	NodeFalloff   float64 // Node mode influence radius
	WaveAmplitude float64
	WavePhase     float64 // Radians per px of rest position
	WaveTimeScale float64 // Radians per ms
	NodeGain      float64
	BaseAlpha     float64
	PeakAlpha     float64
}

// Influence returns the linear falloff weight of a point at dist from the
// cursor: 1 at the cursor, 0 at falloff and beyond.
func Influence(dist, falloff float64) float64 {
	if falloff <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(dist)/falloff)
}

// GridDrift eases the line grid toward an offset proportional to the
// pointer's distance from the viewport center.
type GridDrift struct {
	Factor float64
	Ease   float64

	offset r2.Point
}

// Step moves the drift one ease step toward its target and returns it.
func (d *GridDrift) Step(pointer r2.Point, width, height float64) r2.Point {
	target := pointer.Sub(r2.Point{X: width / 2, Y: height / 2}).Mul(d.Factor)
	d.offset = d.offset.Add(target.Sub(d.offset).Mul(d.Ease))
	return d.offset
}

// Offset returns the drift of the last step.
func (d *GridDrift) Offset() r2.Point {
	return d.offset
}

// GridField is the virtual lattice covering the viewport. It keeps no state
// between frames other than its rest positions, so Update always yields the
// same field for the same cursor, drift and time.
type GridField struct {
	settings GridSettings
	width    float64
	height   float64

	lines []GridLine
	nodes []GridNode
}

// NewGridField creates a grid for a viewport of the given size.
func NewGridField(settings GridSettings, width, height float64) *GridField {
	if settings.Spacing < 1 {
		settings.Spacing = 1
	}
	g := &GridField{settings: settings}
	g.Resize(width, height)
	return g
}

// Resize rebuilds the rest positions for a new viewport. Sizes below
// config.MinViewport are clamped.
func (g *GridField) Resize(width, height float64) {
	g.width = clampViewport(width)
	g.height = clampViewport(height)

	g.lines = g.lines[:0]
	g.nodes = g.nodes[:0]
	spacing := g.settings.Spacing

	switch g.settings.Mode {
	case config.GridNodes:
		for x := 0.0; x < g.width; x += spacing {
			for y := 0.0; y < g.height; y += spacing {
				g.nodes = append(g.nodes, GridNode{BaseX: x, BaseY: y, Alpha: g.settings.BaseAlpha, Size: 1})
			}
		}
	default:
		for x := 0.0; x < g.width; x += spacing {
			g.lines = append(g.lines, GridLine{Axis: Vertical, Base: x, Alpha: g.settings.BaseAlpha})
		}
		for y := 0.0; y < g.height; y += spacing {
			g.lines = append(g.lines, GridLine{Axis: Horizontal, Base: y, Alpha: g.settings.BaseAlpha})
		}
	}
}

func clampViewport(v float64) float64 {
	if math.IsNaN(v) || v < config.MinViewport {
		return config.MinViewport
	}
	return v
}

// Update recomputes every line or node from the cursor position, the grid
// drift and the time elapsed since the engine started. Lines are shifted by
// the drift modulo the spacing; nodes ignore it.
func (g *GridField) Update(cursor, drift r2.Point, elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)
	s := g.settings
	shiftX := math.Mod(drift.X, s.Spacing)
	shiftY := math.Mod(drift.Y, s.Spacing)
	if math.IsNaN(shiftX) || math.IsNaN(shiftY) {
		shiftX, shiftY = 0, 0
	}

	for i := range g.lines {
		l := &g.lines[i]
		l.Shift = shiftX
		dist := cursor.X - (l.Base + l.Shift)
		if l.Axis == Horizontal {
			l.Shift = shiftY
			dist = cursor.Y - (l.Base + l.Shift)
		}
		influence := Influence(dist, s.Falloff)
		l.Offset = math.Sin((l.Base+l.Shift)*s.WavePhase+ms*s.WaveTimeScale) * influence * s.WaveAmplitude
		l.Alpha = s.BaseAlpha + (s.PeakAlpha-s.BaseAlpha)*influence
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		base := r2.Point{X: n.BaseX, Y: n.BaseY}
		influence := Influence(geom.Distance(cursor, base), s.NodeFalloff)
		pull := cursor.Sub(base).Mul(influence * s.NodeGain)
		n.DX, n.DY = pull.X, pull.Y
		n.Alpha = s.BaseAlpha + (s.PeakAlpha-s.BaseAlpha)*influence
		n.Size = 1 + 2*influence
	}
}

// Size returns the clamped viewport size the grid covers.
func (g *GridField) Size() (width, height float64) {
	return g.width, g.height
}

// Lines returns the line-mode grid of the last update. The slice is owned
// by the field and is rewritten on the next update.
func (g *GridField) Lines() []GridLine {
	return g.lines
}

// Nodes returns the node-mode grid of the last update. The slice is owned
// by the field and is rewritten on the next update.
func (g *GridField) Nodes() []GridNode {
	return g.nodes
}
