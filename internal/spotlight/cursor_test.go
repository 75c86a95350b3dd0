package spotlight

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func TestSmoothingConvergesMonotonically(t *testing.T) {
	const ease = 0.12
	const epsilon = 0.5

	s := NewCursorSmoother(ease)
	s.Reset(r2.Point{X: 0, Y: 0})
	target := r2.Point{X: 100, Y: -50}

	start := target.Sub(s.Position()).Norm()
	// |d_n| = |d_0| * (1-ease)^n, so this many ticks must suffice
	bound := int(math.Ceil(math.Log(epsilon/start) / math.Log(1-ease)))

	prev := start
	converged := -1
	for tick := 1; tick <= 200; tick++ {
		pos, _ := s.Step(target)
		d := target.Sub(pos).Norm()
		if d > prev {
			t.Fatalf("Expected non-increasing distance, tick %d went from %v to %v", tick, prev, d)
		}
		if d < prev && d >= prev*(1-ease)+1e-9 && d != 0 {
			t.Fatalf("Expected contraction by %v at tick %d, got %v -> %v", 1-ease, tick, prev, d)
		}
		if converged < 0 && d < epsilon {
			converged = tick
		}
		prev = d
	}
	if converged < 0 || converged > bound {
		t.Errorf("Expected convergence within %d ticks, got %d", bound, converged)
	}
	if prev != 0 {
		t.Errorf("Expected the cursor to settle exactly on the target, got distance %v", prev)
	}
}

func TestSmoothingNeverOvershoots(t *testing.T) {
	s := NewCursorSmoother(0.12)
	s.Reset(r2.Point{X: 0, Y: 0})
	for i := 0; i < 100; i++ {
		pos, _ := s.Step(r2.Point{X: 10, Y: 0})
		if pos.X > 10 {
			t.Fatalf("Expected no overshoot, got x=%v at tick %d", pos.X, i)
		}
	}
}

func TestSpeedUsesRawSamples(t *testing.T) {
	s := NewCursorSmoother(0.12)
	s.Reset(r2.Point{X: 0, Y: 0})

	_, speed := s.Step(r2.Point{X: 30, Y: 40})
	if speed != 50 {
		t.Errorf("Expected speed 50 from the raw jump, got %v", speed)
	}
	// Smoothed position still lags but the raw pointer has stopped
	_, speed = s.Step(r2.Point{X: 30, Y: 40})
	if speed != 0 {
		t.Errorf("Expected speed 0 once the raw pointer stops, got %v", speed)
	}
}

func TestSmootherStartsOffscreen(t *testing.T) {
	s := NewCursorSmoother(0.12)
	if s.Position() != OffscreenDefault {
		t.Errorf("Expected %v, got %v", OffscreenDefault, s.Position())
	}
}

func TestRadiusStaysInBounds(t *testing.T) {
	m := RadiusModulator{Base: 120, Gain: 0.5, Cap: 40}
	speeds := []float64{0, 1, 10, 79.9, 80, 81, 1e3, 1e9, math.Inf(1), -5, math.NaN()}
	for _, speed := range speeds {
		r := m.Radius(speed)
		if r < m.Base || r > m.Base+m.Cap {
			t.Errorf("Radius(%v) = %v, expected within [%v, %v]", speed, r, m.Base, m.Base+m.Cap)
		}
	}
	if r := m.Radius(20); r != 130 {
		t.Errorf("Expected radius 130 at speed 20, got %v", r)
	}
	if r := m.Radius(1e6); r != 160 {
		t.Errorf("Expected capped radius 160, got %v", r)
	}
}

func TestParallaxIsBounded(t *testing.T) {
	tests := []struct {
		raw  r2.Point
		want r2.Point
	}{
		{r2.Point{X: 800, Y: 450}, r2.Point{X: 0, Y: 0}},
		{r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10}},
		{r2.Point{X: 1600, Y: 900}, r2.Point{X: -10, Y: -10}},
		{r2.Point{X: -300, Y: 5000}, r2.Point{X: 10, Y: -10}},
	}
	for _, tt := range tests {
		got := ParallaxFor(tt.raw, 1600, 900, 10)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("ParallaxFor(%v): expected %v, got %v", tt.raw, tt.want, got)
		}
	}
	if got := ParallaxFor(r2.Point{X: 5, Y: 5}, 0, 0, 10); math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Errorf("Expected finite parallax for a zero viewport, got %v", got)
	}
}
