package spotlight

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/geom"
)

func newTestEngine(cfg config.Tunables) (*Engine, *ManualClock) {
	clock := NewManualClock(epoch)
	e := NewEngine(cfg, clock, nil)
	e.Resize(1600, 900)
	return e, clock
}

func TestEngineInitialFrame(t *testing.T) {
	e := NewEngine(config.Defaults(), NewManualClock(epoch), nil)
	f := e.Frame()
	if f.Cursor.Point() != OffscreenDefault {
		t.Errorf("Expected the cursor parked offscreen, got %v", f.Cursor.Point())
	}
	if f.Width < config.MinViewport || f.Height < config.MinViewport {
		t.Errorf("Expected a clamped viewport, got %vx%v", f.Width, f.Height)
	}
	if f.BaseRadius != config.DefaultSmallRadius {
		t.Errorf("Expected the small radius before the first resize, got %v", f.BaseRadius)
	}
}

func TestEngineBaseRadiusFollowsViewport(t *testing.T) {
	e, _ := newTestEngine(config.Defaults())
	if got := e.Frame().BaseRadius; got != 120 {
		t.Errorf("Expected base radius 120 on a wide viewport, got %v", got)
	}
	e.Resize(400, 800)
	if got := e.Frame().BaseRadius; got != 60 {
		t.Errorf("Expected base radius 60 on a narrow viewport, got %v", got)
	}
}

func TestEngineEchoLifecycle(t *testing.T) {
	cfg := config.Defaults()
	e, clock := newTestEngine(cfg)

	e.TouchStart(0, 0)
	e.Advance(clock.Now())
	if got := e.Frame().Cursor.Point(); got != (r2.Point{}) {
		t.Fatalf("Expected the cursor snapped onto the touch, got %v", got)
	}

	e.PointerMove(500, 500)
	clock.Advance(cfg.EchoSamplePeriod)
	echo, ok := e.SampleEchoes(clock.Now())
	if !ok {
		t.Fatal("Expected an echo after a fast move")
	}
	if echo.X != 0 || echo.Y != 0 {
		t.Errorf("Expected the echo at the smoothed cursor (0,0), got (%v,%v)", echo.X, echo.Y)
	}
	if e.Echoes().Len() != 1 {
		t.Fatalf("Expected exactly one echo, got %d", e.Echoes().Len())
	}

	clock.Advance(cfg.EchoTTL / 2)
	if got := len(e.Advance(clock.Now()).Echoes); got != 1 {
		t.Errorf("Expected the echo alive at ttl/2, got %d", got)
	}

	clock.Advance(cfg.EchoTTL/2 + time.Millisecond)
	if got := len(e.Advance(clock.Now()).Echoes); got != 0 {
		t.Errorf("Expected the echo removed after ttl, got %d", got)
	}
}

func TestEngineReducedMotion(t *testing.T) {
	cfg := config.Defaults()
	cfg.ReducedMotion = true
	e, clock := newTestEngine(cfg)

	e.PointerMove(0, 0)
	e.SampleEchoes(clock.Now())
	e.PointerMove(1000, 800)
	clock.Advance(cfg.EchoSamplePeriod)
	if _, ok := e.SampleEchoes(clock.Now()); ok {
		t.Error("Expected no echoes with reduced motion")
	}

	f := e.Advance(clock.Now().Add(time.Second))
	for _, l := range f.Grid.Lines() {
		if l.Offset != 0 || l.Shift != 0 {
			t.Fatalf("Expected a still grid with reduced motion, line at %v has offset %v shift %v", l.Base, l.Offset, l.Shift)
		}
	}
	if f.GridDrift != (r2.Point{}) {
		t.Errorf("Expected no grid drift with reduced motion, got %v", f.GridDrift)
	}
}

func TestEngineGridDriftEasesTowardPointer(t *testing.T) {
	cfg := config.Defaults()
	e, clock := newTestEngine(cfg)

	// 500px right of and 250px below the center of 1600x900
	e.PointerMove(1300, 700)
	target := r2.Point{X: 500 * cfg.GridDrift, Y: 250 * cfg.GridDrift}

	f := e.Advance(clock.Now())
	if want := target.Mul(cfg.GridDriftEase); f.GridDrift.Sub(want).Norm() > 1e-9 {
		t.Fatalf("Expected the first step at %v, got %v", want, f.GridDrift)
	}
	prev := f.GridDrift.Norm()
	for i := 0; i < 200; i++ {
		clock.Advance(16 * time.Millisecond)
		f = e.Advance(clock.Now())
		if n := f.GridDrift.Norm(); n < prev-1e-9 {
			t.Fatalf("Expected the drift to grow toward its target, %v after %v", n, prev)
		}
		prev = f.GridDrift.Norm()
	}
	if f.GridDrift.Sub(target).Norm() > 0.01 {
		t.Errorf("Expected the drift settled at %v, got %v", target, f.GridDrift)
	}
	for _, l := range f.Grid.Lines() {
		want := f.GridDrift.X
		if l.Axis == Horizontal {
			want = f.GridDrift.Y
		}
		if math.Abs(l.Shift-want) > 1e-9 {
			t.Fatalf("Expected line at %v shifted by %v, got %v", l.Base, want, l.Shift)
		}
	}
}

// TestEngineSimulation drives the engine the way a host does: render ticks
// every 16ms, echo samples every 30ms and inversion polls every 50ms, with
// the pointer zig-zagging across the viewport.
func TestEngineSimulation(t *testing.T) {
	cfg := config.Defaults()
	clock := NewManualClock(epoch)
	label := geom.Rect(700, 400, 900, 440)
	e := NewEngine(cfg, clock, GeometryFunc(func(key string) (r2.Rect, bool) {
		return label, key == "title"
	}))
	e.Resize(1600, 900)
	e.Inverter().Register("title")

	frames := NewPeriodic(16*time.Millisecond, epoch)
	samples := NewPeriodic(cfg.EchoSamplePeriod, epoch)
	polls := NewPeriodic(cfg.InversionPollPeriod, epoch)

	sawEcho, sawInverted := false, false
	for ms := 0; ms < 3000; ms++ {
		now := clock.Now()
		phase := float64(ms) / 400
		e.PointerMove(800+700*math.Sin(phase*math.Pi), 420+300*math.Cos(phase))

		if frames.Due(now) {
			f := e.Advance(now)
			c := f.Cursor
			if c.Radius < f.BaseRadius || c.Radius > f.BaseRadius+cfg.RadiusCap {
				t.Fatalf("Radius %v outside [%v, %v] at %dms", c.Radius, f.BaseRadius, f.BaseRadius+cfg.RadiusCap, ms)
			}
			if len(f.Echoes) > cfg.EchoCapacity {
				t.Fatalf("Expected at most %d echoes, got %d at %dms", cfg.EchoCapacity, len(f.Echoes), ms)
			}
			for _, echo := range f.Echoes {
				if echo.Age(now) >= cfg.EchoTTL {
					t.Fatalf("Echo %d outlived its ttl: age %v at %dms", echo.ID, echo.Age(now), ms)
				}
			}
			if math.Abs(f.Parallax.X) > cfg.ParallaxStrength || math.Abs(f.Parallax.Y) > cfg.ParallaxStrength {
				t.Fatalf("Parallax %v out of bounds at %dms", f.Parallax, ms)
			}
			sawEcho = sawEcho || len(f.Echoes) > 0
		}
		if samples.Due(now) {
			e.SampleEchoes(now)
		}
		if polls.Due(now) {
			e.PollInversion()
			c := e.Frame().Cursor
			want := Overlaps(label, c.Point(), c.Radius)
			if got := e.Inverter().Inverted("title"); got != want {
				t.Fatalf("Expected inverted=%v for cursor %v at %dms", want, c, ms)
			}
			sawInverted = sawInverted || want
		}
		clock.Advance(time.Millisecond)
	}

	if !sawEcho {
		t.Error("Expected the fast pointer to leave echoes")
	}
	if !sawInverted {
		t.Error("Expected the cursor to pass over the label")
	}
}
