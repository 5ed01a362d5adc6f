package session

import (
	"time"

	"github.com/tomz197/reflex/internal/tuning"
)

// Curve maps elapsed running time and the lifetime hit count to the
// difficulty of the next target. It holds only immutable parameters.
type Curve struct {
	cfg tuning.DifficultyConfig
}

// NewCurve creates a curve from difficulty tuning.
func NewCurve(cfg tuning.DifficultyConfig) Curve {
	return Curve{cfg: cfg}
}

// SpawnInterval returns the delay before the next spawn.
func (c Curve) SpawnInterval(elapsed time.Duration) time.Duration {
	return decayDuration(c.cfg.BaseSpawnInterval, c.cfg.SpawnDecay, c.cfg.MinSpawnInterval, elapsed)
}

// TargetLifetime returns how long a newly spawned target stays active.
func (c Curve) TargetLifetime(elapsed time.Duration, targetsHit int) time.Duration {
	if c.inTutorial(targetsHit) {
		return c.cfg.TutorialLifetime
	}
	return decayDuration(c.cfg.BaseLifetime, c.cfg.LifetimeDecay, c.cfg.MinLifetime, elapsed)
}

// TargetRadius returns the radius of a newly spawned target.
func (c Curve) TargetRadius(elapsed time.Duration, targetsHit int) float64 {
	if c.inTutorial(targetsHit) {
		return c.cfg.TutorialRadius
	}
	r := c.cfg.BaseRadius - c.cfg.RadiusDecay*seconds(elapsed)
	if r < c.cfg.MinRadius {
		return c.cfg.MinRadius
	}
	return r
}

// InTutorial reports whether the tutorial override applies.
func (c Curve) InTutorial(targetsHit int) bool {
	return c.inTutorial(targetsHit)
}

func (c Curve) inTutorial(targetsHit int) bool {
	return targetsHit < c.cfg.TutorialTargets
}

// decayDuration computes max(floor, base - perSecond*elapsedSeconds).
func decayDuration(base, perSecond, floor, elapsed time.Duration) time.Duration {
	d := base - time.Duration(float64(perSecond)*seconds(elapsed))
	if d < floor {
		return floor
	}
	return d
}

func seconds(elapsed time.Duration) float64 {
	if elapsed < 0 {
		return 0
	}
	return elapsed.Seconds()
}
