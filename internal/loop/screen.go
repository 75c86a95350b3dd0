package loop

import (
	"fmt"
	"image/color"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/tomz197/spotlight/internal/draw"
	"github.com/tomz197/spotlight/internal/hero"
	"github.com/tomz197/spotlight/internal/spotlight"
)

// measureCells measures monospaced text in logical px: one cell per rune.
func measureCells(text string) (width, height float64) {
	return float64(utf8.RuneCountInString(text)) * draw.CellWidth, draw.CellHeight
}

// drawFrame is the RenderLoop draw callback of the terminal host. Canvas
// cells, border and text all go into the chunk writer so one Flush sends
// the whole frame.
func (s *Session) drawFrame(frame *spotlight.FrameState) error {
	if !s.canvas.Ready() {
		return spotlight.ErrSurfaceNotReady
	}
	s.layout.Update(frame.Width, frame.Height, frame.Parallax)
	if err := s.scene.Draw(s.canvas.Image(), frame); err != nil {
		return err
	}

	cw := s.chunkWriter
	s.canvas.Render(cw)
	s.canvas.RenderBorder(cw)

	inverter := s.engine.Inverter()
	for _, label := range s.layout.Labels() {
		box, ok := s.layout.BoundingBox(label.Key)
		if !ok {
			continue
		}
		col, row := s.canvas.LogicalToTerminal(box.X.Lo, box.Y.Lo)
		s.labels.paint(cw, s.canvas, col, row, label.Text, inverter.Inverted(label.Key))
	}

	if opacity := hero.SplashOpacity(frame.Elapsed); opacity > 0 {
		s.drawSplashTitle(cw, opacity)
	}
	if idle := frame.Now.Sub(s.lastInput); s.disconnectIdle && idle >= InactivityWarnUser {
		s.drawInactivityNotice(cw, InactivityDisconnectUser-idle)
	}
	return nil
}

// drawSplashTitle centers the title on the splash veil, fading it with the
// veil.
func (s *Session) drawSplashTitle(cw *draw.ChunkWriter, opacity float64) {
	title := s.cfg.Title
	if title == "" {
		return
	}
	palette := s.scene.Palette()
	fg := palette.Background.BlendRgb(palette.Foreground, opacity)
	col := (s.canvas.TerminalWidth()-utf8.RuneCountInString(title))/2 + 1
	row := (s.canvas.TerminalHeight() + 1) / 2
	s.labels.paintColor(cw, s.canvas, col, row, title, fg)
}

// drawInactivityNotice warns the user before an idle disconnect.
func (s *Session) drawInactivityNotice(cw *draw.ChunkWriter, left time.Duration) {
	msg := fmt.Sprintf("Inactive: disconnecting in %d seconds. Move the mouse to stay.", int(max(left, 0).Seconds()))
	col := max((s.canvas.TerminalWidth()-utf8.RuneCountInString(msg))/2+1, 1)
	s.labels.paintColor(cw, s.canvas, col, s.canvas.TerminalHeight(), msg, s.scene.Palette().Inverted)
}

// labelPainter writes text over the canvas. Every rune takes the averaged
// color of the cell below it as background, so text sits on the image.
type labelPainter struct {
	renderer *lipgloss.Renderer
	palette  hero.Palette
}

func newLabelPainter(w io.Writer, palette hero.Palette) *labelPainter {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	return &labelPainter{renderer: r, palette: palette}
}

// paint writes a label at the 1-based canvas position (col, row). Inverted
// labels swap to a solid chip so they stay legible inside the spotlight.
func (p *labelPainter) paint(cw *draw.ChunkWriter, canvas *draw.Canvas, col, row int, text string, inverted bool) {
	if inverted {
		style := p.renderer.NewStyle().
			Foreground(lipgloss.Color(p.palette.Background.Hex())).
			Background(lipgloss.Color(p.palette.Inverted.Hex())).
			Bold(true)
		p.write(cw, canvas, col, row, text, func() lipgloss.Style { return style })
		return
	}
	p.paintColor(cw, canvas, col, row, text, p.palette.Foreground)
}

// paintColor writes text in fg over the image colors.
func (p *labelPainter) paintColor(cw *draw.ChunkWriter, canvas *draw.Canvas, col, row int, text string, fg colorful.Color) {
	foreground := lipgloss.Color(fg.Clamped().Hex())
	c := col
	p.write(cw, canvas, col, row, text, func() lipgloss.Style {
		top, bottom := canvas.CellColors(c, row)
		c++
		return p.renderer.NewStyle().
			Foreground(foreground).
			Background(lipgloss.Color(cellBackground(top, bottom).Hex()))
	})
}

// write emits text rune by rune, clipped to the canvas, and marks the cells
// it covered so the next frame repaints them.
func (p *labelPainter) write(cw *draw.ChunkWriter, canvas *draw.Canvas, col, row int, text string, style func() lipgloss.Style) {
	if row < 1 || row > canvas.TerminalHeight() {
		return
	}
	start, width := 0, 0
	c := col
	for _, r := range text {
		if c > canvas.TerminalWidth() {
			break
		}
		st := style()
		if c < 1 {
			c++
			continue
		}
		if width == 0 {
			start = c
			cw.MoveCursor(c, row)
		}
		cw.WriteString(st.Render(string(r)))
		width++
		c++
	}
	if width > 0 {
		canvas.MarkTextDirty(start, row, width)
	}
}

// cellBackground averages the two sub-pixels of a cell.
func cellBackground(top, bottom color.RGBA) colorful.Color {
	a, _ := colorful.MakeColor(opaque(top))
	b, _ := colorful.MakeColor(opaque(bottom))
	return a.BlendRgb(b, 0.5).Clamped()
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
