package config

import (
	"fmt"
	"strings"
	"time"
)

// envPrefix is prepended to every tunable's environment variable name.
const envPrefix = "SPOTLIGHT_"

// GridMode selects how the background grid reacts to the cursor.
type GridMode string

const (
	GridLines GridMode = "lines" // Vertical/horizontal lines rippling near the cursor
	GridNodes GridMode = "nodes" // Lattice points pulled toward the cursor
)

// Cursor and radius
const (
	DefaultEaseFactor         = 0.12
	DefaultSmallRadius        = 60.0
	DefaultLargeRadius        = 120.0
	DefaultSmallViewportWidth = 768.0 // Logical px
	DefaultRadiusCap          = 40.0
	DefaultSpeedGain          = 0.5
	DefaultParallaxStrength   = 10.0 // Max px of parallax translation
	DefaultLabelParallax      = 0.3  // Labels move at 30% of the image parallax
)

// Echo trail
const (
	DefaultEchoVelocityThreshold = 15.0 // px per sample period
	DefaultEchoCooldown          = 60 * time.Millisecond
	DefaultEchoTTL               = 600 * time.Millisecond
	DefaultEchoCapacity          = 9
	DefaultEchoSamplePeriod      = 30 * time.Millisecond
	DefaultEchoSpeedNormalizer   = 30.0
	DefaultEchoSizeCap           = 0.7
	DefaultEchoOpacity           = 0.2
)

// Grid field
const (
	DefaultGridSpacing   = 60.0
	DefaultGridFalloff   = 300.0 // Line mode
	DefaultNodeFalloff   = 400.0 // Node mode
	DefaultWaveAmplitude = 5.0
	DefaultWavePhase     = 0.01  // Radians per px of line position
	DefaultWaveTimeScale = 0.001 // Radians per ms
	DefaultNodeGain      = 0.03
	DefaultGridBaseAlpha = 0.3
	DefaultGridPeakAlpha = 0.7
	DefaultGridDrift     = 0.02 // Line mode offset per px of pointer distance from center
	DefaultGridDriftEase = 0.05
)

// Scheduling
const (
	DefaultInversionPollPeriod = 50 * time.Millisecond
	DefaultTargetFPS           = 60
)

// MinViewport is the smallest viewport edge (logical px) the engine accepts.
const MinViewport = 1.0

// Tunables holds every recognized option of the engine and the banner.
type Tunables struct {
	EaseFactor         float64
	SmallRadius        float64
	LargeRadius        float64
	SmallViewportWidth float64
	RadiusCap          float64
	SpeedGain          float64
	ParallaxStrength   float64
	LabelParallax      float64

	EchoVelocityThreshold float64
	EchoCooldown          time.Duration
	EchoTTL               time.Duration
	EchoCapacity          int
	EchoSamplePeriod      time.Duration
	EchoSpeedNormalizer   float64
	EchoSizeCap           float64
	EchoOpacity           float64

	GridMode      GridMode
	GridSpacing   float64
	GridFalloff   float64
	NodeFalloff   float64
	WaveAmplitude float64
	WavePhase     float64
	WaveTimeScale float64
	NodeGain      float64
	GridBaseAlpha float64
	GridPeakAlpha float64
	GridDrift     float64
	GridDriftEase float64

	InversionPollPeriod time.Duration
	TargetFPS           int
	ReducedMotion       bool

	Title  string
	Nav    string
	Social string
	Seed   int64
}

// Defaults returns the reference configuration.
func Defaults() Tunables {
	return Tunables{
		EaseFactor:         DefaultEaseFactor,
		SmallRadius:        DefaultSmallRadius,
		LargeRadius:        DefaultLargeRadius,
		SmallViewportWidth: DefaultSmallViewportWidth,
		RadiusCap:          DefaultRadiusCap,
		SpeedGain:          DefaultSpeedGain,
		ParallaxStrength:   DefaultParallaxStrength,
		LabelParallax:      DefaultLabelParallax,

		EchoVelocityThreshold: DefaultEchoVelocityThreshold,
		EchoCooldown:          DefaultEchoCooldown,
		EchoTTL:               DefaultEchoTTL,
		EchoCapacity:          DefaultEchoCapacity,
		EchoSamplePeriod:      DefaultEchoSamplePeriod,
		EchoSpeedNormalizer:   DefaultEchoSpeedNormalizer,
		EchoSizeCap:           DefaultEchoSizeCap,
		EchoOpacity:           DefaultEchoOpacity,

		GridMode:      GridLines,
		GridSpacing:   DefaultGridSpacing,
		GridFalloff:   DefaultGridFalloff,
		NodeFalloff:   DefaultNodeFalloff,
		WaveAmplitude: DefaultWaveAmplitude,
		WavePhase:     DefaultWavePhase,
		WaveTimeScale: DefaultWaveTimeScale,
		NodeGain:      DefaultNodeGain,
		GridBaseAlpha: DefaultGridBaseAlpha,
		GridPeakAlpha: DefaultGridPeakAlpha,
		GridDrift:     DefaultGridDrift,
		GridDriftEase: DefaultGridDriftEase,

		InversionPollPeriod: DefaultInversionPollPeriod,
		TargetFPS:           DefaultTargetFPS,

		Title:  "Hassan Salman",
		Nav:    "F1 Records",
		Social: "IG   X",
		Seed:   7,
	}
}

// Load reads the tunables from SPOTLIGHT_* environment variables on top of
// the defaults, then normalizes them. The returned problems name every
// variable that could not be parsed and every value replaced by a default.
func Load() (Tunables, []string) {
	t := Defaults()
	var problems []string

	floats := []struct {
		key string
		dst *float64
	}{
		{"EASE_FACTOR", &t.EaseFactor},
		{"BASE_RADIUS_SMALL", &t.SmallRadius},
		{"BASE_RADIUS_LARGE", &t.LargeRadius},
		{"SMALL_VIEWPORT_WIDTH", &t.SmallViewportWidth},
		{"RADIUS_CAP", &t.RadiusCap},
		{"SPEED_GAIN", &t.SpeedGain},
		{"PARALLAX_STRENGTH", &t.ParallaxStrength},
		{"ECHO_VELOCITY_THRESHOLD", &t.EchoVelocityThreshold},
		{"GRID_SPACING", &t.GridSpacing},
		{"GRID_FALLOFF", &t.GridFalloff},
		{"WAVE_AMPLITUDE", &t.WaveAmplitude},
		{"GRID_DRIFT", &t.GridDrift},
	}
	for _, f := range floats {
		v, ok := GetEnvFloat(envPrefix+f.key, *f.dst)
		if !ok {
			problems = append(problems, envPrefix+f.key+": not a number")
		}
		*f.dst = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ECHO_COOLDOWN", &t.EchoCooldown},
		{"ECHO_TTL", &t.EchoTTL},
		{"ECHO_SAMPLE_PERIOD", &t.EchoSamplePeriod},
		{"INVERSION_POLL_PERIOD", &t.InversionPollPeriod},
	}
	for _, d := range durations {
		v, ok := GetEnvDuration(envPrefix+d.key, *d.dst)
		if !ok {
			problems = append(problems, envPrefix+d.key+": not a duration")
		}
		*d.dst = v
	}

	var ok bool
	if t.EchoCapacity, ok = GetEnvInt(envPrefix+"ECHO_CAPACITY", t.EchoCapacity); !ok {
		problems = append(problems, envPrefix+"ECHO_CAPACITY: not an integer")
	}
	if t.TargetFPS, ok = GetEnvInt(envPrefix+"TARGET_FPS", t.TargetFPS); !ok {
		problems = append(problems, envPrefix+"TARGET_FPS: not an integer")
	}
	if t.ReducedMotion, ok = GetEnvBool(envPrefix+"REDUCED_MOTION", t.ReducedMotion); !ok {
		problems = append(problems, envPrefix+"REDUCED_MOTION: not a boolean")
	}
	seed, ok := GetEnvInt(envPrefix+"SEED", int(t.Seed))
	if !ok {
		problems = append(problems, envPrefix+"SEED: not an integer")
	}
	t.Seed = int64(seed)

	t.GridMode = GridMode(strings.ToLower(GetEnv(envPrefix+"GRID_MODE", string(t.GridMode))))
	t.Title = GetEnv(envPrefix+"TITLE", t.Title)
	t.Nav = GetEnv(envPrefix+"NAV", t.Nav)
	t.Social = GetEnv(envPrefix+"SOCIAL", t.Social)

	problems = append(problems, t.Normalize()...)
	return t, problems
}

// Normalize replaces out-of-range values with their defaults and returns a
// description of every replacement.
func (t *Tunables) Normalize() []string {
	def := Defaults()
	var fixed []string
	fix := func(name string, bad bool, apply func()) {
		if bad {
			apply()
			fixed = append(fixed, fmt.Sprintf("%s out of range, using default", name))
		}
	}

	fix("ease factor", !(t.EaseFactor > 0 && t.EaseFactor < 1), func() { t.EaseFactor = def.EaseFactor })
	fix("small radius", !(t.SmallRadius > 0), func() { t.SmallRadius = def.SmallRadius })
	fix("large radius", !(t.LargeRadius > 0), func() { t.LargeRadius = def.LargeRadius })
	fix("small viewport width", t.SmallViewportWidth < 0, func() { t.SmallViewportWidth = def.SmallViewportWidth })
	fix("radius cap", !(t.RadiusCap >= 0), func() { t.RadiusCap = def.RadiusCap })
	fix("speed gain", !(t.SpeedGain >= 0), func() { t.SpeedGain = def.SpeedGain })
	fix("parallax strength", !(t.ParallaxStrength >= 0), func() { t.ParallaxStrength = def.ParallaxStrength })
	fix("echo velocity threshold", !(t.EchoVelocityThreshold >= 0), func() { t.EchoVelocityThreshold = def.EchoVelocityThreshold })
	fix("echo cooldown", t.EchoCooldown < 0, func() { t.EchoCooldown = def.EchoCooldown })
	fix("echo ttl", t.EchoTTL <= 0, func() { t.EchoTTL = def.EchoTTL })
	fix("echo capacity", t.EchoCapacity < 1, func() { t.EchoCapacity = def.EchoCapacity })
	fix("echo sample period", t.EchoSamplePeriod <= 0, func() { t.EchoSamplePeriod = def.EchoSamplePeriod })
	fix("echo speed normalizer", !(t.EchoSpeedNormalizer > 0), func() { t.EchoSpeedNormalizer = def.EchoSpeedNormalizer })
	fix("grid mode", t.GridMode != GridLines && t.GridMode != GridNodes, func() { t.GridMode = def.GridMode })
	fix("grid spacing", !(t.GridSpacing >= 1), func() { t.GridSpacing = def.GridSpacing })
	fix("grid falloff", !(t.GridFalloff > 0), func() { t.GridFalloff = def.GridFalloff })
	fix("node falloff", !(t.NodeFalloff > 0), func() { t.NodeFalloff = def.NodeFalloff })
	fix("wave amplitude", !(t.WaveAmplitude >= 0), func() { t.WaveAmplitude = def.WaveAmplitude })
	fix("grid drift", !(t.GridDrift >= 0), func() { t.GridDrift = def.GridDrift })
	fix("grid drift ease", !(t.GridDriftEase > 0 && t.GridDriftEase <= 1), func() { t.GridDriftEase = def.GridDriftEase })
	fix("inversion poll period", t.InversionPollPeriod <= 0, func() { t.InversionPollPeriod = def.InversionPollPeriod })
	fix("target fps", t.TargetFPS < 1 || t.TargetFPS > 240, func() { t.TargetFPS = def.TargetFPS })

	return fixed
}

// FrameInterval returns the time between render ticks for hosts without a
// vertical sync signal.
func (t Tunables) FrameInterval() time.Duration {
	return time.Second / time.Duration(t.TargetFPS)
}

// BaseRadius returns the device-class radius for a viewport of the given
// logical width.
func (t Tunables) BaseRadius(viewportWidth float64) float64 {
	if viewportWidth < t.SmallViewportWidth {
		return t.SmallRadius
	}
	return t.LargeRadius
}
