// Package tuning centralizes all tunable session parameters.
// Defaults live here as constants; a YAML file can override any subset.
package tuning

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Session
const (
	DefaultMaxLives       = 3
	DefaultCountdown      = 3 * time.Second
	DefaultMilestoneEvery = 10
)

// Difficulty
const (
	DefaultBaseSpawnInterval = 2000 * time.Millisecond
	DefaultMinSpawnInterval  = 600 * time.Millisecond
	DefaultSpawnDecay        = 30 * time.Millisecond // Per second of elapsed play

	DefaultBaseLifetime  = 2500 * time.Millisecond
	DefaultMinLifetime   = 800 * time.Millisecond
	DefaultLifetimeDecay = 35 * time.Millisecond // Per second of elapsed play

	DefaultBaseRadius  = 35.0
	DefaultMinRadius   = 18.0
	DefaultRadiusDecay = 0.15 // Logical units per second of elapsed play

	DefaultTutorialTargets  = 5
	DefaultTutorialLifetime = 3500 * time.Millisecond
	DefaultTutorialRadius   = 45.0
)

// Placement
const (
	DefaultMaxAttempts   = 20
	DefaultOverlapFactor = 2.5
	DefaultEdgeMargin    = 25.0
)

// Playfield - logical units, scaled to whatever the host renders on.
const (
	DefaultFieldWidth  = 800.0
	DefaultFieldHeight = 600.0
	DefaultHUDHeight   = 50.0 // Band at the top kept free of targets
)

// DefaultPalette is the fixed set of target colors.
var DefaultPalette = []string{"#e94560", "#0f3460", "#533483", "#00b4d8", "#90be6d", "#f77f00"}

// Config holds every tunable the session core reads.
type Config struct {
	Session    SessionConfig    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Placement  PlacementConfig  `yaml:"placement"`
	Field      FieldConfig      `yaml:"field"`
	Palette    []string         `yaml:"palette"`
}

// SessionConfig controls lives, pre-roll and milestones.
type SessionConfig struct {
	MaxLives       int           `yaml:"max_lives"`
	Countdown      time.Duration `yaml:"countdown"`
	MilestoneEvery int           `yaml:"milestone_every"`
}

// DifficultyConfig defines the linear ramps and their floors.
// Decay values are applied per second of elapsed running time.
type DifficultyConfig struct {
	BaseSpawnInterval time.Duration `yaml:"base_spawn_interval"`
	MinSpawnInterval  time.Duration `yaml:"min_spawn_interval"`
	SpawnDecay        time.Duration `yaml:"spawn_decay"`

	BaseLifetime  time.Duration `yaml:"base_lifetime"`
	MinLifetime   time.Duration `yaml:"min_lifetime"`
	LifetimeDecay time.Duration `yaml:"lifetime_decay"`

	BaseRadius  float64 `yaml:"base_radius"`
	MinRadius   float64 `yaml:"min_radius"`
	RadiusDecay float64 `yaml:"radius_decay"`

	TutorialTargets  int           `yaml:"tutorial_targets"`
	TutorialLifetime time.Duration `yaml:"tutorial_lifetime"`
	TutorialRadius   float64       `yaml:"tutorial_radius"`
}

// PlacementConfig bounds the rejection sampler.
type PlacementConfig struct {
	MaxAttempts   int     `yaml:"max_attempts"`
	OverlapFactor float64 `yaml:"overlap_factor"` // Minimum centre distance as a multiple of the new radius
	EdgeMargin    float64 `yaml:"edge_margin"`
}

// FieldConfig is the logical playfield size.
type FieldConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	HUDHeight float64 `yaml:"hud_height"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Session: SessionConfig{
			MaxLives:       DefaultMaxLives,
			Countdown:      DefaultCountdown,
			MilestoneEvery: DefaultMilestoneEvery,
		},
		Difficulty: DifficultyConfig{
			BaseSpawnInterval: DefaultBaseSpawnInterval,
			MinSpawnInterval:  DefaultMinSpawnInterval,
			SpawnDecay:        DefaultSpawnDecay,
			BaseLifetime:      DefaultBaseLifetime,
			MinLifetime:       DefaultMinLifetime,
			LifetimeDecay:     DefaultLifetimeDecay,
			BaseRadius:        DefaultBaseRadius,
			MinRadius:         DefaultMinRadius,
			RadiusDecay:       DefaultRadiusDecay,
			TutorialTargets:   DefaultTutorialTargets,
			TutorialLifetime:  DefaultTutorialLifetime,
			TutorialRadius:    DefaultTutorialRadius,
		},
		Placement: PlacementConfig{
			MaxAttempts:   DefaultMaxAttempts,
			OverlapFactor: DefaultOverlapFactor,
			EdgeMargin:    DefaultEdgeMargin,
		},
		Field: FieldConfig{
			Width:     DefaultFieldWidth,
			Height:    DefaultFieldHeight,
			HUDHeight: DefaultHUDHeight,
		},
		Palette: append([]string(nil), DefaultPalette...),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing tuning: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid tuning %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that an empty path or a missing file
// yields the defaults instead of an error.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks that the curves stay completable and non-increasing.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	s := c.Session
	check(s.MaxLives >= 1, "session.max_lives must be >= 1, got %d", s.MaxLives)
	check(s.Countdown >= 0, "session.countdown must not be negative")
	check(s.MilestoneEvery >= 1, "session.milestone_every must be >= 1, got %d", s.MilestoneEvery)

	d := c.Difficulty
	check(d.MinSpawnInterval > 0, "difficulty.min_spawn_interval must be positive")
	check(d.BaseSpawnInterval >= d.MinSpawnInterval, "difficulty.base_spawn_interval below its minimum")
	check(d.SpawnDecay >= 0, "difficulty.spawn_decay must not be negative")
	check(d.MinLifetime > 0, "difficulty.min_lifetime must be positive")
	check(d.BaseLifetime >= d.MinLifetime, "difficulty.base_lifetime below its minimum")
	check(d.LifetimeDecay >= 0, "difficulty.lifetime_decay must not be negative")
	check(d.MinRadius > 0, "difficulty.min_radius must be positive")
	check(d.BaseRadius >= d.MinRadius, "difficulty.base_radius below its minimum")
	check(d.RadiusDecay >= 0, "difficulty.radius_decay must not be negative")
	check(d.TutorialTargets >= 0, "difficulty.tutorial_targets must not be negative")
	check(d.TutorialLifetime > 0, "difficulty.tutorial_lifetime must be positive")
	check(d.TutorialRadius > 0, "difficulty.tutorial_radius must be positive")

	p := c.Placement
	check(p.MaxAttempts >= 1, "placement.max_attempts must be >= 1, got %d", p.MaxAttempts)
	check(p.OverlapFactor >= 0, "placement.overlap_factor must not be negative")
	check(p.EdgeMargin >= 0, "placement.edge_margin must not be negative")

	f := c.Field
	check(f.Width > 0 && f.Height > 0, "field width and height must be positive")
	check(f.HUDHeight >= 0 && f.HUDHeight < f.Height, "field.hud_height must be in [0, height)")

	check(len(c.Palette) > 0, "palette must not be empty")

	return errors.Join(errs...)
}
