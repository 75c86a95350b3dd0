package spotlight

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/config"
)

// FrameState is the snapshot written once per render tick and read by every
// downstream consumer during that tick.
type FrameState struct {
	Frame      uint64
	Now        time.Time
	Elapsed    time.Duration // Since the engine started
	Width      float64       // Clamped viewport size in logical px
	Height     float64
	BaseRadius float64
	Raw        r2.Point
	Cursor     Cursor
	Parallax   r2.Point
	GridDrift  r2.Point
	Echoes     []Echo
	Grid       *GridField
}

// Engine composes the pointer-reactive components. It is not safe for
// concurrent use: hosts call it from a single goroutine, interleaving input,
// render ticks, echo samples and inversion polls.
type Engine struct {
	cfg   config.Tunables
	clock Clock
	start time.Time

	pointer  *PointerTracker
	smoother *CursorSmoother
	radius   RadiusModulator
	echoes   *EchoEmitter
	grid     *GridField
	drift    GridDrift
	inverter *ProximityInverter

	frame FrameState
}

// NewEngine creates an engine for a viewport of zero size; hosts call Resize
// before the first tick.
func NewEngine(cfg config.Tunables, clock Clock, geometry GeometryProvider) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	start := clock.Now()

	e := &Engine{
		cfg:      cfg,
		clock:    clock,
		start:    start,
		pointer:  NewPointerTracker(),
		smoother: NewCursorSmoother(cfg.EaseFactor),
		radius: RadiusModulator{
			Base: cfg.BaseRadius(0),
			Gain: cfg.SpeedGain,
			Cap:  cfg.RadiusCap,
		},
		echoes: NewEchoEmitter(EchoSettings{
			VelocityThreshold: cfg.EchoVelocityThreshold,
			Cooldown:          cfg.EchoCooldown,
			TTL:               cfg.EchoTTL,
			Capacity:          cfg.EchoCapacity,
			SpeedNormalizer:   cfg.EchoSpeedNormalizer,
			SizeCap:           cfg.EchoSizeCap,
			Disabled:          cfg.ReducedMotion,
		}),
		inverter: NewProximityInverter(geometry),
	}

	amplitude := cfg.WaveAmplitude
	e.drift = GridDrift{Factor: cfg.GridDrift, Ease: cfg.GridDriftEase}
	if cfg.ReducedMotion {
		amplitude = 0
		e.drift.Factor = 0
	}
	e.grid = NewGridField(GridSettings{
		Mode:          cfg.GridMode,
		Spacing:       cfg.GridSpacing,
		Falloff:       cfg.GridFalloff,
		NodeFalloff:   cfg.NodeFalloff,
		WaveAmplitude: amplitude,
		WavePhase:     cfg.WavePhase,
		WaveTimeScale: cfg.WaveTimeScale,
		NodeGain:      cfg.NodeGain,
		BaseAlpha:     cfg.GridBaseAlpha,
		PeakAlpha:     cfg.GridPeakAlpha,
	}, 0, 0)

	w, h := e.grid.Size()
	e.frame = FrameState{
		Now:        start,
		Width:      w,
		Height:     h,
		BaseRadius: e.radius.Base,
		Raw:        e.pointer.Raw(),
		Cursor: Cursor{
			X:      OffscreenDefault.X,
			Y:      OffscreenDefault.Y,
			Radius: e.radius.Base,
		},
		Grid: e.grid,
	}
	return e
}

// Config returns the tunables the engine was built with.
func (e *Engine) Config() config.Tunables {
	return e.cfg
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock {
	return e.clock
}

// Resize adapts the grid and the device-class radius to a new viewport.
func (e *Engine) Resize(width, height float64) {
	e.grid.Resize(width, height)
	w, h := e.grid.Size()
	e.radius.Base = e.cfg.BaseRadius(w)
	e.frame.Width, e.frame.Height = w, h
	e.frame.BaseRadius = e.radius.Base
}

// PointerMove feeds a pointer-move event.
func (e *Engine) PointerMove(x, y float64) {
	e.pointer.Move(x, y)
}

// TouchStart feeds the first contact of a touch and snaps the smoothed
// cursor onto it.
func (e *Engine) TouchStart(x, y float64) {
	e.pointer.TouchStart(x, y)
	p := e.pointer.Raw()
	e.smoother.Reset(p)
	e.echoes.Resync(p)
}

// TouchMove feeds a moving touch contact.
func (e *Engine) TouchMove(x, y float64) {
	e.pointer.TouchMove(x, y)
}

// Advance runs the render-tick update: smoothing, radius, parallax, grid
// drift, grid and the echo snapshot. It is the only writer of the frame state.
func (e *Engine) Advance(now time.Time) *FrameState {
	raw := e.pointer.Raw()
	pos, speed := e.smoother.Step(raw)
	elapsed := now.Sub(e.start)

	f := &e.frame
	drift := e.drift.Step(raw, f.Width, f.Height)
	e.grid.Update(pos, drift, elapsed)

	f.Frame++
	f.Now = now
	f.Elapsed = elapsed
	f.Raw = raw
	f.Cursor = Cursor{
		X:      pos.X,
		Y:      pos.Y,
		Radius: e.radius.Radius(speed),
		Speed:  math.Max(speed, 0),
	}
	f.Parallax = ParallaxFor(raw, f.Width, f.Height, e.cfg.ParallaxStrength)
	f.GridDrift = drift
	f.Echoes = e.echoes.Live(now)
	return f
}

// SampleEchoes runs one echo sampling period against the latest raw pointer
// and the cursor of the last render tick.
func (e *Engine) SampleEchoes(now time.Time) (Echo, bool) {
	return e.echoes.Sample(now, e.pointer.Raw(), e.frame.Cursor, e.radius.Base)
}

// PollInversion re-tests every registered element against the cursor of the
// last render tick.
func (e *Engine) PollInversion() {
	e.inverter.Poll(e.frame.Cursor)
}

// Frame returns the state written by the last render tick. Callers must not
// modify it.
func (e *Engine) Frame() *FrameState {
	return &e.frame
}

// Inverter returns the proximity inverter, for registering elements and
// reading their flags.
func (e *Engine) Inverter() *ProximityInverter {
	return e.inverter
}

// Echoes returns the echo emitter.
func (e *Engine) Echoes() *EchoEmitter {
	return e.echoes
}
