package loop

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/hero"
	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/spotlight"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeTerm struct {
	width, height int
}

func (f *fakeTerm) size() (int, int, error) {
	return f.width, f.height, nil
}

func newTestSession(t *testing.T, cols, rows int) (*Session, *fakeTerm, *spotlight.ManualClock, *bytes.Buffer) {
	t.Helper()
	term := &fakeTerm{width: cols, height: rows}
	clock := spotlight.NewManualClock(epoch)
	out := &bytes.Buffer{}
	cfg := config.Defaults()
	cfg.Title = "Hello"
	s := NewSession(strings.NewReader(""), out, Options{
		Config:       cfg,
		TermSizeFunc: term.size,
		Clock:        clock,
	})
	return s, term, clock, out
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"fits", 80, 24, 80, 24, 0, 0},
		{"too wide", 300, 24, MaxTermWidth, 24, 30, 0},
		{"too tall", 80, 100, 80, MaxTermHeight, 0, 10},
		{"negative", -5, -5, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := clampTermSize(tt.w, tt.h)
			if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
				t.Errorf("Expected %d,%d +%d,%d, got %d,%d +%d,%d", tt.rw, tt.rh, tt.offCol, tt.offRow, rw, rh, oc, or)
			}
		})
	}
}

func TestFirstFrameResizesAndDraws(t *testing.T) {
	s, _, clock, out := newTestSession(t, 80, 24)
	if err := s.Frame(clock.Now()); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	f := s.Engine().Frame()
	if f.Width != 640 || f.Height != 384 {
		t.Errorf("Expected a 640x384 logical viewport, got %vx%v", f.Width, f.Height)
	}
	if f.BaseRadius != config.DefaultSmallRadius {
		t.Errorf("Expected the small base radius, got %v", f.BaseRadius)
	}
	if st := s.Stats(); st.Drawn != 1 {
		t.Errorf("Expected one drawn frame, got %+v", st)
	}
	if !strings.Contains(out.String(), "\033[2J") {
		t.Error("Expected the screen cleared on the first size")
	}
	if !strings.Contains(out.String(), "▀") {
		t.Error("Expected canvas cells in the output")
	}
}

func TestFrameSkipsEmptyTerminal(t *testing.T) {
	s, _, clock, _ := newTestSession(t, 0, 0)
	s.Frame(clock.Now())
	if st := s.Stats(); st.Skipped != 1 || st.Drawn != 0 {
		t.Errorf("Expected the frame skipped, got %+v", st)
	}
}

func TestResizeCentersCanvas(t *testing.T) {
	s, term, clock, out := newTestSession(t, 80, 24)
	s.Frame(clock.Now())

	term.width, term.height = 300, 100
	out.Reset()
	clock.Advance(16 * time.Millisecond)
	s.Frame(clock.Now())

	c := s.Canvas()
	if c.TerminalWidth() != MaxTermWidth || c.TerminalHeight() != MaxTermHeight {
		t.Errorf("Expected the canvas clamped, got %dx%d", c.TerminalWidth(), c.TerminalHeight())
	}
	if c.OffsetCol() != 30 || c.OffsetRow() != 10 {
		t.Errorf("Expected offset 30,10, got %d,%d", c.OffsetCol(), c.OffsetRow())
	}
	if !strings.Contains(out.String(), "┌") {
		t.Error("Expected a border around the centered canvas")
	}
	if f := s.Engine().Frame(); f.Width != MaxTermWidth*8 {
		t.Errorf("Expected the engine resized, got width %v", f.Width)
	}
}

func TestHandleEvents(t *testing.T) {
	s, _, clock, _ := newTestSession(t, 80, 24)
	s.Frame(clock.Now())

	if quit := s.HandleEvents([]input.Event{{Type: input.EventMove, Col: 10, Row: 5}}); quit {
		t.Fatal("Expected a move not to quit")
	}
	clock.Advance(16 * time.Millisecond)
	s.Frame(clock.Now())
	if raw := s.Engine().Frame().Raw; raw.X != 84 || raw.Y != 88 {
		t.Errorf("Expected the pointer at the cell center 84,88, got %v", raw)
	}

	if quit := s.HandleEvents([]input.Event{{Type: input.EventMove}, {Type: input.EventQuit}}); !quit {
		t.Error("Expected quit")
	}
}

func TestLabelsRegisterAndInvert(t *testing.T) {
	s, _, clock, out := newTestSession(t, 80, 24)
	clock.Advance(3 * time.Second)
	s.Frame(clock.Now())

	box, ok := s.layout.BoundingBox(hero.KeyTitle)
	if !ok {
		t.Fatal("Expected the title laid out")
	}
	if !strings.Contains(ansi.Strip(out.String()), "Hello") {
		t.Error("Expected the title text in the output")
	}

	inv := s.Engine().Inverter()
	s.loop.PollInversion()
	if inv.Inverted(hero.KeyTitle) {
		t.Fatal("Expected the title not inverted with the pointer offscreen")
	}

	s.Engine().TouchStart(box.Center().X, box.Center().Y)
	clock.Advance(16 * time.Millisecond)
	s.Frame(clock.Now())
	s.loop.PollInversion()
	if !inv.Inverted(hero.KeyTitle) {
		t.Error("Expected the title inverted under the spotlight")
	}
}

func TestSplashTitle(t *testing.T) {
	s, _, clock, out := newTestSession(t, 80, 24)
	s.cfg.Title = "Splash"
	s.Frame(clock.Now())
	if !strings.Contains(ansi.Strip(out.String()), "Splash") {
		t.Error("Expected the splash title while the splash is up")
	}
}

func TestIdleNoticeAndDisconnect(t *testing.T) {
	s, _, clock, out := newTestSession(t, 80, 24)
	s.disconnectIdle = true

	clock.Advance(InactivityWarnUser + 5*time.Second)
	s.Frame(clock.Now())
	if !strings.Contains(ansi.Strip(out.String()), "disconnecting in 25 seconds") {
		t.Error("Expected the inactivity notice")
	}
	if s.idleExpired(clock.Now()) {
		t.Error("Expected the session kept before the disconnect timeout")
	}

	clock.Advance(InactivityDisconnectUser)
	if !s.idleExpired(clock.Now()) {
		t.Error("Expected the session expired")
	}

	s.HandleEvents([]input.Event{{Type: input.EventMove}})
	if s.idleExpired(clock.Now()) {
		t.Error("Expected input to reset the idle timer")
	}
}

func TestRunEndsOnQuitKey(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewSession(strings.NewReader("q"), out, Options{
		Config:       config.Defaults(),
		TermSizeFunc: (&fakeTerm{width: 40, height: 12}).size,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Expected Run to end before the timeout")
	}
	got := out.String()
	if !strings.HasPrefix(got, "\033[?1049h") {
		t.Error("Expected the alternate screen entered first")
	}
	if !strings.HasSuffix(got, "\033[?1049l") {
		t.Error("Expected the main screen restored last")
	}
}

func TestRunEndsWithContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := NewSession(pr, &bytes.Buffer{}, Options{
		Config:       config.Defaults(),
		TermSizeFunc: (&fakeTerm{width: 40, height: 12}).size,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Expected Run to end with its context")
	}
}
