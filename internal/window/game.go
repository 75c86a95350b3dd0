// Package window hosts the banner in a desktop or mobile window through
// ebiten, with mouse and touch input.
package window

import (
	"errors"
	"image"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/hero"
	"github.com/tomz197/spotlight/internal/spotlight"
)

// Options configures a Game.
type Options struct {
	Config config.Tunables
	Logger *log.Logger
	Clock  spotlight.Clock
}

// Game implements ebiten.Game. Update feeds input and runs the periodic
// activities, Draw runs the render tick into an RGBA frame and uploads it.
type Game struct {
	cfg    config.Tunables
	logger *log.Logger

	engine  *spotlight.Engine
	loop    *spotlight.RenderLoop
	scene   *hero.Scene
	layout  *hero.Layout
	overlay *hero.Overlay

	echoes *spotlight.Periodic
	polls  *spotlight.Periodic

	frame  *image.RGBA
	width  int
	height int

	cursor   image.Point
	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
}

// NewGame creates the window host.
func NewGame(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Config
	palette := hero.DefaultPalette()

	overlay, err := hero.NewOverlay(palette)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		scene:   hero.NewScene(cfg, 1, palette),
		overlay: overlay,
		cursor:  image.Pt(-1, -1),
	}
	g.layout = hero.NewLayout(hero.DefaultLabels(cfg), overlay.Measure, cfg.LabelParallax)
	g.engine = spotlight.NewEngine(cfg, opts.Clock, g.layout)
	for _, label := range g.layout.Labels() {
		g.engine.Inverter().Register(label.Key)
	}
	g.loop = spotlight.NewRenderLoop(g.engine, g.drawFrame, logger)

	now := g.engine.Clock().Now()
	g.echoes = spotlight.NewPeriodic(cfg.EchoSamplePeriod, now)
	g.polls = spotlight.NewPeriodic(cfg.InversionPollPeriod, now)
	return g, nil
}

// Update reads input and runs the echo sampler and inversion poll when due.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.handleInput()

	now := g.engine.Clock().Now()
	if g.echoes.Due(now) {
		g.loop.SampleEchoes(now)
	}
	if g.polls.Due(now) {
		g.loop.PollInversion()
	}
	return nil
}

// handleInput forwards cursor moves and the first active touch to the
// engine. A new touch snaps the spotlight onto the contact.
func (g *Game) handleInput() {
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 && !g.touching {
		g.touch = g.touchIDs[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touch)
		g.engine.TouchStart(float64(x), float64(y))
		return
	}
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touch) {
			g.touching = false
			return
		}
		x, y := ebiten.TouchPosition(g.touch)
		g.engine.TouchMove(float64(x), float64(y))
		return
	}

	x, y := ebiten.CursorPosition()
	if p := image.Pt(x, y); p != g.cursor {
		g.cursor = p
		g.engine.PointerMove(float64(x), float64(y))
	}
}

// Draw runs one render tick and uploads the frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.loop.Tick(g.engine.Clock().Now())
	if g.frame != nil && screen.Bounds().Size() == g.frame.Bounds().Size() {
		screen.WritePixels(g.frame.Pix)
	}
}

// Layout resizes the frame to the window, one logical px per screen px.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, 1), max(outsideHeight, 1)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.frame = image.NewRGBA(image.Rect(0, 0, w, h))
		g.engine.Resize(float64(w), float64(h))
		g.logger.Debug("window resized", "width", w, "height", h)
	}
	return w, h
}

// Stats returns the frame counters of the render loop.
func (g *Game) Stats() spotlight.LoopStats {
	return g.loop.Stats()
}

func (g *Game) drawFrame(frame *spotlight.FrameState) error {
	if g.frame == nil {
		return spotlight.ErrSurfaceNotReady
	}
	g.layout.Update(frame.Width, frame.Height, frame.Parallax)
	if err := g.scene.Draw(g.frame, frame); err != nil {
		return err
	}
	g.overlay.Draw(g.frame, g.layout, g.engine.Inverter().Inverted, g.cfg.Title, frame.Elapsed)
	return nil
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.TargetFPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
