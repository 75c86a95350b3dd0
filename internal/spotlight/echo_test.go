package spotlight

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testEchoSettings() EchoSettings {
	return EchoSettings{
		VelocityThreshold: 15,
		Cooldown:          60 * time.Millisecond,
		TTL:               600 * time.Millisecond,
		Capacity:          9,
		SpeedNormalizer:   30,
		SizeCap:           0.7,
	}
}

func TestEchoFirstSampleOnlyPrimes(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	if _, ok := e.Sample(epoch, r2.Point{X: 900, Y: 900}, Cursor{}, 120); ok {
		t.Error("Expected no echo before a previous sample exists")
	}
}

func TestEchoSpawnsAboveThreshold(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	e.Sample(epoch, r2.Point{X: 0, Y: 0}, Cursor{}, 120)

	cursor := Cursor{X: 12, Y: 34, Radius: 120}
	if _, ok := e.Sample(epoch.Add(30*time.Millisecond), r2.Point{X: 10, Y: 0}, cursor, 120); ok {
		t.Error("Expected no echo at speed 10")
	}

	echo, ok := e.Sample(epoch.Add(60*time.Millisecond), r2.Point{X: 310, Y: 0}, cursor, 120)
	if !ok {
		t.Fatal("Expected an echo at speed 300")
	}
	if echo.X != 12 || echo.Y != 34 {
		t.Errorf("Expected echo at the smoothed cursor (12,34), got (%v,%v)", echo.X, echo.Y)
	}
	if want := 120 * 2 * 0.7; math.Abs(echo.Size-want) > 1e-9 {
		t.Errorf("Expected size %v, got %v", want, echo.Size)
	}
	if !echo.SpawnTime.Equal(epoch.Add(60 * time.Millisecond)) {
		t.Errorf("Expected spawn time at the sample, got %v", echo.SpawnTime)
	}
}

func TestEchoSizeScalesWithSpeed(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	e.Sample(epoch, r2.Point{X: 0, Y: 0}, Cursor{}, 100)
	echo, ok := e.Sample(epoch.Add(30*time.Millisecond), r2.Point{X: 18, Y: 0}, Cursor{}, 100)
	if !ok {
		t.Fatal("Expected an echo at speed 18")
	}
	if want := 100 * 2 * (18.0 / 30.0); math.Abs(echo.Size-want) > 1e-9 {
		t.Errorf("Expected size %v, got %v", want, echo.Size)
	}
}

func TestEchoCooldown(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	e.Sample(epoch, r2.Point{X: 0, Y: 0}, Cursor{}, 120)

	x := 0.0
	spawned := 0
	for i := 1; i <= 4; i++ {
		x += 100
		if _, ok := e.Sample(epoch.Add(time.Duration(i)*30*time.Millisecond), r2.Point{X: x}, Cursor{}, 120); ok {
			spawned++
		}
	}
	// 60ms and 90ms fall inside the cooldown of the 30ms echo; 120ms does not
	if spawned != 2 {
		t.Errorf("Expected 2 echoes with a 60ms cooldown over 120ms, got %d", spawned)
	}
}

func TestEchoCapacityIsNeverExceeded(t *testing.T) {
	settings := testEchoSettings()
	settings.Cooldown = 0
	e := NewEchoEmitter(settings)

	now := epoch
	for i := 0; i < 100; i++ {
		x := 0.0
		if i%2 == 1 {
			x = 500
		}
		now = now.Add(time.Millisecond)
		e.Sample(now, r2.Point{X: x}, Cursor{}, 120)
		if e.Len() > settings.Capacity {
			t.Fatalf("Expected at most %d live echoes, got %d after sample %d", settings.Capacity, e.Len(), i)
		}
	}

	live := e.Live(now)
	if len(live) != settings.Capacity {
		t.Fatalf("Expected a full trail of %d, got %d", settings.Capacity, len(live))
	}
	for i := 1; i < len(live); i++ {
		if live[i].ID <= live[i-1].ID {
			t.Errorf("Expected oldest-first order, got ids %d then %d", live[i-1].ID, live[i].ID)
		}
	}
	if last := live[len(live)-1].ID; last != 98 {
		t.Errorf("Expected the newest echo to survive trimming, got id %d", last)
	}
}

func TestEchoExpiry(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	e.Sample(epoch, r2.Point{X: 0, Y: 0}, Cursor{}, 120)
	t0 := epoch.Add(30 * time.Millisecond)
	if _, ok := e.Sample(t0, r2.Point{X: 400, Y: 0}, Cursor{}, 120); !ok {
		t.Fatal("Expected an echo")
	}

	ttl := 600 * time.Millisecond
	if got := len(e.Live(t0.Add(ttl / 2))); got != 1 {
		t.Errorf("Expected the echo alive at ttl/2, got %d live", got)
	}
	if got := len(e.Live(t0.Add(ttl + time.Millisecond))); got != 0 {
		t.Errorf("Expected the echo gone after ttl, got %d live", got)
	}
}

func TestEchoRemovalIsIdempotent(t *testing.T) {
	settings := testEchoSettings()
	settings.Capacity = 1
	e := NewEchoEmitter(settings)

	e.Sample(epoch, r2.Point{X: 0}, Cursor{}, 120)
	first, _ := e.Sample(epoch.Add(100*time.Millisecond), r2.Point{X: 500}, Cursor{}, 120)
	second, ok := e.Sample(epoch.Add(200*time.Millisecond), r2.Point{X: 0}, Cursor{}, 120)
	if !ok {
		t.Fatal("Expected a second echo")
	}

	// The first echo was trimmed by capacity; its expiry must not touch the second
	live := e.Live(first.SpawnTime.Add(600*time.Millisecond + time.Millisecond))
	if len(live) != 1 || live[0].ID != second.ID {
		t.Fatalf("Expected only echo %d alive, got %v", second.ID, live)
	}
	if got := len(e.Live(second.SpawnTime.Add(601 * time.Millisecond))); got != 0 {
		t.Errorf("Expected the trail empty after the second expiry, got %d", got)
	}
}

func TestEchoDisabledForReducedMotion(t *testing.T) {
	settings := testEchoSettings()
	settings.Disabled = true
	e := NewEchoEmitter(settings)
	e.Sample(epoch, r2.Point{X: 0}, Cursor{}, 120)
	if _, ok := e.Sample(epoch.Add(time.Second), r2.Point{X: 1000}, Cursor{}, 120); ok {
		t.Error("Expected no echoes with reduced motion")
	}
}

func TestEchoResyncSuppressesJump(t *testing.T) {
	e := NewEchoEmitter(testEchoSettings())
	e.Sample(epoch, r2.Point{X: 0}, Cursor{}, 120)
	e.Resync(r2.Point{X: 800, Y: 400})
	if _, ok := e.Sample(epoch.Add(30*time.Millisecond), r2.Point{X: 800, Y: 400}, Cursor{}, 120); ok {
		t.Error("Expected no echo after resyncing onto the new contact")
	}
}
