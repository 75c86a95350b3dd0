// Package loop runs the banner in a terminal: one Session per terminal,
// whether it is the local tty or an SSH channel.
package loop

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/draw"
	"github.com/tomz197/spotlight/internal/hero"
	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/spotlight"
)

// Options configures a Session.
type Options struct {
	Config         config.Tunables
	TermSizeFunc   draw.TermSizeFunc
	Logger         *log.Logger
	Clock          spotlight.Clock
	DisconnectIdle bool // End the session after InactivityDisconnectUser without input
}

// Session owns the engine, canvas and label painter of one terminal. All of
// its state is touched by the Run goroutine only.
type Session struct {
	cfg          config.Tunables
	logger       *log.Logger
	reader       io.Reader
	writer       io.Writer
	termSizeFunc draw.TermSizeFunc

	engine      *spotlight.Engine
	loop        *spotlight.RenderLoop
	scene       *hero.Scene
	layout      *hero.Layout
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter // Accumulates canvas cells and label text for one flush
	labels      *labelPainter

	disconnectIdle bool
	lastInput      time.Time
}

// NewSession creates a session reading input from r and drawing to w.
func NewSession(r io.Reader, w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Config

	s := &Session{
		cfg:            cfg,
		logger:         logger,
		reader:         r,
		writer:         w,
		termSizeFunc:   termSizeFunc,
		canvas:         draw.NewCanvas(0, 0),
		chunkWriter:    draw.NewChunkWriter(w, 0, 0),
		scene:          hero.NewScene(cfg, draw.SubPixelScale, hero.DefaultPalette()),
		disconnectIdle: opts.DisconnectIdle,
	}
	s.layout = hero.NewLayout(hero.DefaultLabels(cfg), measureCells, cfg.LabelParallax)
	s.labels = newLabelPainter(w, s.scene.Palette())

	s.engine = spotlight.NewEngine(cfg, opts.Clock, s.layout)
	for _, label := range s.layout.Labels() {
		s.engine.Inverter().Register(label.Key)
	}
	s.loop = spotlight.NewRenderLoop(s.engine, s.drawFrame, logger)
	s.lastInput = s.engine.Clock().Now()
	return s
}

// Engine returns the session's engine.
func (s *Session) Engine() *spotlight.Engine {
	return s.engine
}

// Canvas returns the session's canvas.
func (s *Session) Canvas() *draw.Canvas {
	return s.canvas
}

// Stats returns the frame counters of the render loop.
func (s *Session) Stats() spotlight.LoopStats {
	return s.loop.Stats()
}

// Run sets the terminal up, runs the banner until ctx is done, the input
// ends or the user quits, and restores the terminal.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	draw.EnterAltScreen(s.writer)
	draw.HideCursor(s.writer)
	draw.EnableMouse(s.writer)
	draw.ClearScreen(s.writer)
	defer func() {
		draw.DisableMouse(s.writer)
		draw.ClearScreen(s.writer)
		draw.ShowCursor(s.writer)
		draw.ExitAltScreen(s.writer)
	}()

	stream := input.StartStream(ctx, s.reader)
	events := make(chan []input.Event)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Input pump: forwards decoded batches until the stream ends
		defer cancel()
		for {
			select {
			case batch, ok := <-stream.Events():
				if !ok {
					return nil
				}
				select {
				case events <- batch:
				case <-ctx.Done():
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		return s.run(ctx, events)
	})
	err := g.Wait()

	stats := s.loop.Stats()
	s.logger.Debug("session finished", "frames", stats.Frames, "drawn", stats.Drawn, "skipped", stats.Skipped, "failed", stats.Failed)
	return err
}

// run is the single goroutine that owns the engine: it interleaves input,
// render ticks, echo samples and inversion polls.
func (s *Session) run(ctx context.Context, events <-chan []input.Event) error {
	frameTicker := time.NewTicker(s.cfg.FrameInterval())
	defer frameTicker.Stop()
	echoTicker := time.NewTicker(s.cfg.EchoSamplePeriod)
	defer echoTicker.Stop()
	pollTicker := time.NewTicker(s.cfg.InversionPollPeriod)
	defer pollTicker.Stop()

	clock := s.engine.Clock()
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-events:
			if quit := s.HandleEvents(batch); quit {
				return nil
			}
		case <-frameTicker.C:
			if err := s.Frame(clock.Now()); err != nil {
				return err
			}
			if s.idleExpired(clock.Now()) {
				s.logger.Info("disconnecting idle session")
				return nil
			}
		case <-echoTicker.C:
			s.loop.SampleEchoes(clock.Now())
		case <-pollTicker.C:
			s.loop.PollInversion()
		}
	}
}

// HandleEvents feeds a batch of input events to the engine. Returns true
// when the user asked to quit.
func (s *Session) HandleEvents(batch []input.Event) (quit bool) {
	if len(batch) > 0 {
		s.lastInput = s.engine.Clock().Now()
	}
	for _, ev := range batch {
		switch ev.Type {
		case input.EventQuit:
			return true
		case input.EventMove, input.EventPress, input.EventRelease:
			x, y := s.canvas.TerminalToLogical(ev.Col, ev.Row)
			s.engine.PointerMove(x, y)
		}
	}
	return false
}

// Frame runs one render tick at now and flushes the output.
func (s *Session) Frame(now time.Time) error {
	s.updateScreen()
	s.loop.Tick(now)
	return s.chunkWriter.Flush()
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (s *Session) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.chunkWriter)
		s.canvas.Resize(renderWidth, renderHeight)
		s.canvas.SetOffset(offsetCol, offsetRow)
		s.canvas.ForceRedraw()
		s.chunkWriter.SetOffset(offsetCol, offsetRow)
		s.engine.Resize(s.canvas.LogicalWidth(), s.canvas.LogicalHeight())
		s.logger.Debug("terminal resized", "cols", renderWidth, "rows", renderHeight)
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, MaxTermWidth), 0)
	renderHeight = max(min(termHeight, MaxTermHeight), 0)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

func (s *Session) idleExpired(now time.Time) bool {
	return s.disconnectIdle && now.Sub(s.lastInput) >= InactivityDisconnectUser
}
