package spotlight

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomz197/spotlight/internal/config"
)

func newTestLoop(draw DrawFunc) (*RenderLoop, *ManualClock) {
	clock := NewManualClock(epoch)
	engine := NewEngine(config.Defaults(), clock, nil)
	engine.Resize(1600, 900)
	return NewRenderLoop(engine, draw, nil), clock
}

func TestLoopSkipsWhenSurfaceNotReady(t *testing.T) {
	ready := false
	loop, clock := newTestLoop(func(*FrameState) error {
		if !ready {
			return fmt.Errorf("canvas: %w", ErrSurfaceNotReady)
		}
		return nil
	})

	loop.Tick(clock.Now())
	ready = true
	clock.Advance(16 * time.Millisecond)
	loop.Tick(clock.Now())

	stats := loop.Stats()
	if stats.Frames != 2 || stats.Skipped != 1 || stats.Drawn != 1 || stats.Failed != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestLoopContainsDrawFailures(t *testing.T) {
	calls := 0
	loop, clock := newTestLoop(func(*FrameState) error {
		calls++
		switch calls {
		case 1:
			panic("boom")
		case 2:
			return errors.New("broken pipe")
		}
		return nil
	})

	for i := 0; i < 3; i++ {
		loop.Tick(clock.Now())
		clock.Advance(16 * time.Millisecond)
	}

	stats := loop.Stats()
	if stats.Failed != 2 || stats.Drawn != 1 {
		t.Errorf("Expected 2 failed and 1 drawn frame, got %+v", stats)
	}
	if loop.Engine().Frame().Frame != 3 {
		t.Errorf("Expected the engine to keep advancing, at frame %d", loop.Engine().Frame().Frame)
	}
}

func TestLoopWithoutDraw(t *testing.T) {
	loop, clock := newTestLoop(nil)
	loop.Tick(clock.Now())
	loop.SampleEchoes(clock.Now())
	loop.PollInversion()
	if stats := loop.Stats(); stats.Frames != 1 || stats.Skipped != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestGuard(t *testing.T) {
	if err := Guard(func() error { return nil }); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	want := errors.New("x")
	if err := Guard(func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
	if err := Guard(func() error { panic("y") }); err == nil {
		t.Error("Expected a recovered panic to become an error")
	}
}
