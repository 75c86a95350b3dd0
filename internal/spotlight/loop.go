package spotlight

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// ErrSurfaceNotReady is returned by a DrawFunc when its target cannot be
// drawn on yet. The frame is skipped and the next tick retries.
var ErrSurfaceNotReady = errors.New("draw surface not ready")

// DrawFunc renders one frame. It must treat the frame as read-only.
type DrawFunc func(frame *FrameState) error

// LoopStats counts what happened to the frames a RenderLoop produced.
type LoopStats struct {
	Frames  uint64 // Ticks that advanced the engine
	Drawn   uint64 // Frames drawn successfully
	Skipped uint64 // Frames skipped because the surface was not ready
	Failed  uint64 // Frames whose draw returned an error or panicked
}

// RenderLoop is the per-frame driver. Each tick advances the engine and then
// draws; nothing that goes wrong inside a tick escapes it.
type RenderLoop struct {
	engine *Engine
	draw   DrawFunc
	logger *log.Logger
	stats  LoopStats
}

// NewRenderLoop creates a loop drawing through draw. A nil logger discards
// diagnostics.
func NewRenderLoop(engine *Engine, draw DrawFunc, logger *log.Logger) *RenderLoop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RenderLoop{engine: engine, draw: draw, logger: logger}
}

// Tick runs one frame at now.
func (l *RenderLoop) Tick(now time.Time) {
	var frame *FrameState
	if err := Guard(func() error {
		frame = l.engine.Advance(now)
		return nil
	}); err != nil {
		l.stats.Failed++
		l.logger.Debug("frame update failed", "err", err)
		return
	}
	l.stats.Frames++

	if l.draw == nil {
		l.stats.Skipped++
		return
	}
	err := Guard(func() error { return l.draw(frame) })
	switch {
	case err == nil:
		l.stats.Drawn++
	case errors.Is(err, ErrSurfaceNotReady):
		l.stats.Skipped++
	default:
		l.stats.Failed++
		l.logger.Debug("frame draw failed", "frame", frame.Frame, "err", err)
	}
}

// SampleEchoes runs the echo sampler at now, containing any failure.
func (l *RenderLoop) SampleEchoes(now time.Time) {
	if err := Guard(func() error {
		l.engine.SampleEchoes(now)
		return nil
	}); err != nil {
		l.logger.Debug("echo sample failed", "err", err)
	}
}

// PollInversion runs the proximity poll, containing any failure.
func (l *RenderLoop) PollInversion() {
	if err := Guard(func() error {
		l.engine.PollInversion()
		return nil
	}); err != nil {
		l.logger.Debug("inversion poll failed", "err", err)
	}
}

// Stats returns the frame counters.
func (l *RenderLoop) Stats() LoopStats {
	return l.stats
}

// Engine returns the driven engine.
func (l *RenderLoop) Engine() *Engine {
	return l.engine
}

// Guard runs fn and converts a panic into an error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	return fn()
}
