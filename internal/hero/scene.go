// Package hero composites the banner's visual layers from an engine frame:
// background, grid, the base portrait, the spotlight reveal with its echo
// trail and the cursor ring.
package hero

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/spotlight"
)

// Palette holds the banner colors.
type Palette struct {
	Background colorful.Color
	Foreground colorful.Color
	Inverted   colorful.Color // Label color while the spotlight covers it
	Grid       colorful.Color
}

// DefaultPalette returns the dark theme.
func DefaultPalette() Palette {
	return Palette{
		Background: colorful.Color{R: 0.055, G: 0.055, B: 0.06},
		Foreground: colorful.Color{R: 0.85, G: 0.84, B: 0.82},
		Inverted:   colorful.Color{R: 1, G: 1, B: 1},
		Grid:       colorful.Color{R: 0.75, G: 0.75, B: 0.75},
	}
}

// Layer opacities.
const (
	gridOpacity = 0.22 // Multiplies the per-line alpha of the grid field
	ringOpacity = 0.2
)

// Scene draws frames onto RGBA surfaces. It keeps the cover-fitted images
// and the ring spring between frames, so one Scene serves one surface.
type Scene struct {
	cfg     config.Tunables
	scale   float64 // Surface px per logical px
	palette Palette
	sources Portraits

	// Cover-fitted layers, larger than the surface by margin on every side
	// so parallax never exposes an edge.
	base   *image.RGBA
	reveal *image.RGBA
	fitW   int
	fitH   int
	margin int

	ring *Follower

	dc     *gg.Context
	dcImg  *image.RGBA
	maskDC *gg.Context
}

// NewScene creates a scene drawing at scale surface px per logical px.
func NewScene(cfg config.Tunables, scale float64, palette Palette) *Scene {
	if !(scale > 0) {
		scale = 1
	}
	return &Scene{
		cfg:     cfg,
		scale:   scale,
		palette: palette,
		sources: GeneratePortraits(cfg.Seed),
		ring:    NewFollower(cfg.TargetFPS),
	}
}

// Palette returns the scene colors.
func (s *Scene) Palette() Palette {
	return s.palette
}

// RingPosition returns where the cursor ring was last drawn, in logical px.
func (s *Scene) RingPosition() r2.Point {
	return s.ring.Position()
}

// Draw composites frame onto dst. It returns spotlight.ErrSurfaceNotReady
// when dst has no area.
func (s *Scene) Draw(dst *image.RGBA, frame *spotlight.FrameState) error {
	if dst == nil || dst.Bounds().Empty() {
		return spotlight.ErrSurfaceNotReady
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	s.prepare(dst, w, h)
	dc := s.dc

	dc.SetColor(s.palette.Background)
	dc.Clear()

	s.drawGrid(dc, frame.Grid)

	// Base portrait, translated by parallax
	px := int(math.Round(frame.Parallax.X*s.scale)) - s.margin
	py := int(math.Round(frame.Parallax.Y*s.scale)) - s.margin
	dc.DrawImage(s.base, px, py)

	s.drawReveal(dc, frame, px, py)
	s.drawRing(dc, frame.Cursor)

	if opacity := SplashOpacity(frame.Elapsed); opacity > 0 {
		dc.SetColor(withAlpha(s.palette.Background, opacity))
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}
	return nil
}

// prepare refits the layers after a surface resize and rebinds the drawing
// contexts to dst.
func (s *Scene) prepare(dst *image.RGBA, w, h int) {
	if s.fitW != w || s.fitH != h {
		s.margin = int(math.Ceil(s.cfg.ParallaxStrength * s.scale))
		s.base = CoverFit(s.sources.Base, w+2*s.margin, h+2*s.margin)
		s.reveal = CoverFit(s.sources.Reveal, w+2*s.margin, h+2*s.margin)
		s.fitW, s.fitH = w, h
		s.maskDC = gg.NewContext(w, h)
	}
	if s.dcImg != dst {
		s.dc = gg.NewContextForRGBA(dst)
		s.dcImg = dst
	}
}

func (s *Scene) drawGrid(dc *gg.Context, grid *spotlight.GridField) {
	if grid == nil {
		return
	}
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetLineWidth(1)

	for _, l := range grid.Lines() {
		dc.SetColor(withAlpha(s.palette.Grid, l.Alpha*gridOpacity))
		p := l.Position() * s.scale
		if l.Axis == spotlight.Vertical {
			dc.DrawLine(p, 0, p, h)
		} else {
			dc.DrawLine(0, p, w, p)
		}
		dc.Stroke()
	}

	for _, n := range grid.Nodes() {
		dc.SetColor(withAlpha(s.palette.Grid, n.Alpha*gridOpacity))
		p := n.Position()
		dc.DrawCircle(p.X*s.scale, p.Y*s.scale, math.Max(n.Size*s.scale, 0.5))
		dc.Stroke()
	}
}

// drawReveal paints the reveal image through the spotlight circle and, at
// reduced opacity, through every live echo. Both follow the parallax of the
// image layer.
func (s *Scene) drawReveal(dc *gg.Context, frame *spotlight.FrameState, px, py int) {
	shift := frame.Parallax
	c := frame.Cursor

	dc.DrawCircle((c.X+shift.X)*s.scale, (c.Y+shift.Y)*s.scale, c.Radius*s.scale)
	dc.Clip()
	dc.DrawImage(s.reveal, px, py)
	dc.ResetClip()

	if len(frame.Echoes) == 0 {
		return
	}
	mask := s.maskDC
	mask.SetColor(color.Transparent)
	mask.Clear()
	mask.SetRGBA(1, 1, 1, s.cfg.EchoOpacity)
	for _, e := range frame.Echoes {
		mask.DrawCircle((e.X+shift.X)*s.scale, (e.Y+shift.Y)*s.scale, e.Size/2*s.scale)
		mask.Fill()
	}
	if err := dc.SetMask(mask.AsMask()); err != nil {
		return
	}
	dc.DrawImage(s.reveal, px, py)
	dc.ResetClip()
}

func (s *Scene) drawRing(dc *gg.Context, c spotlight.Cursor) {
	pos := s.ring.Step(c.Point())
	dc.SetColor(withAlpha(s.palette.Foreground, ringOpacity))
	dc.SetLineWidth(1)
	dc.DrawCircle(pos.X*s.scale, pos.Y*s.scale, c.Radius*s.scale)
	dc.Stroke()
}

// withAlpha returns c as a non-premultiplied color at opacity a.
func withAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 255))}
}
