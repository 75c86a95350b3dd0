package spotlight

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/geom"
)

// Echo is a transient trail marker left behind by fast pointer motion.
// Echoes are never mutated after they are spawned.
type Echo struct {
	ID        uint64
	X, Y      float64
	Size      float64 // Diameter in logical px
	SpawnTime time.Time
}

// Age returns how long the echo has been alive at now.
func (e Echo) Age(now time.Time) time.Duration {
	return now.Sub(e.SpawnTime)
}

// EchoSettings configures an EchoEmitter.
type EchoSettings struct {
	VelocityThreshold float64       // Minimum speed (px per sample) to spawn
	Cooldown          time.Duration // Minimum gap between spawns
	TTL               time.Duration // Lifetime of each echo
	Capacity          int           // Maximum live echoes
	SpeedNormalizer   float64       // Speed that maps to size factor 1
	SizeCap           float64       // Maximum size factor
	Disabled          bool          // Reduced motion: never spawn
}

// removal is a deferred expiry for one echo.
type removal struct {
	id  uint64
	due time.Time
}

// EchoEmitter samples the pointer on a fixed cadence and maintains a bounded,
// self-cleaning set of echoes.
type EchoEmitter struct {
	settings EchoSettings

	live     []Echo
	pending  []removal // Ordered by due time; every echo shares one TTL
	nextID   uint64
	lastEcho time.Time
	hasEcho  bool

	prevRaw r2.Point
	primed  bool
}

// NewEchoEmitter creates an emitter with an empty trail.
func NewEchoEmitter(settings EchoSettings) *EchoEmitter {
	if settings.Capacity < 1 {
		settings.Capacity = 1
	}
	return &EchoEmitter{
		settings: settings,
		live:     make([]Echo, 0, settings.Capacity+1),
	}
}

// Sample runs one sampling period. Speed is the raw distance travelled since
// the previous sample; when it exceeds the threshold and the cooldown has
// passed, an echo is spawned at the smoothed cursor position. Returns the
// spawned echo, if any.
func (e *EchoEmitter) Sample(now time.Time, raw r2.Point, cursor Cursor, baseRadius float64) (Echo, bool) {
	e.Expire(now)

	speed := 0.0
	if e.primed {
		speed = geom.Distance(raw, e.prevRaw)
	}
	e.prevRaw = raw
	e.primed = true

	if e.settings.Disabled || speed <= e.settings.VelocityThreshold {
		return Echo{}, false
	}
	if e.hasEcho && now.Sub(e.lastEcho) <= e.settings.Cooldown {
		return Echo{}, false
	}

	factor := math.Min(speed/e.settings.SpeedNormalizer, e.settings.SizeCap)
	echo := Echo{
		ID:        e.nextID,
		X:         cursor.X,
		Y:         cursor.Y,
		Size:      baseRadius * 2 * factor,
		SpawnTime: now,
	}
	e.nextID++

	e.live = append(e.live, echo)
	if over := len(e.live) - e.settings.Capacity; over > 0 {
		// Oldest first, regardless of remaining lifetime
		e.live = append(e.live[:0], e.live[over:]...)
	}
	e.pending = append(e.pending, removal{id: echo.ID, due: now.Add(e.settings.TTL)})
	e.lastEcho = now
	e.hasEcho = true

	return echo, true
}

// Resync forgets the raw sample history so the next sample cannot register
// a jump, e.g. after a touch lands far away from the previous contact.
func (e *EchoEmitter) Resync(raw r2.Point) {
	e.prevRaw = raw
	e.primed = true
}

// Expire fires every deferred removal due at or before now.
func (e *EchoEmitter) Expire(now time.Time) {
	n := 0
	for n < len(e.pending) && !now.Before(e.pending[n].due) {
		e.remove(e.pending[n].id)
		n++
	}
	if n > 0 {
		e.pending = append(e.pending[:0], e.pending[n:]...)
	}
}

// remove drops the echo with the given id. Idempotent: an echo already
// evicted by the capacity trim is simply not found.
func (e *EchoEmitter) remove(id uint64) {
	for i, echo := range e.live {
		if echo.ID == id {
			e.live = append(e.live[:i], e.live[i+1:]...)
			return
		}
	}
}

// Live returns the echoes alive at now, oldest first. The returned slice is
// a copy owned by the caller.
func (e *EchoEmitter) Live(now time.Time) []Echo {
	e.Expire(now)
	out := make([]Echo, len(e.live))
	copy(out, e.live)
	return out
}

// Len returns the number of live echoes without expiring anything.
func (e *EchoEmitter) Len() int {
	return len(e.live)
}

// Clear drops every echo and pending removal.
func (e *EchoEmitter) Clear() {
	e.live = e.live[:0]
	e.pending = e.pending[:0]
	e.hasEcho = false
}
