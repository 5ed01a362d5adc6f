package session

import (
	"math"

	"github.com/tomz197/reflex/internal/physics"
	"github.com/tomz197/reflex/internal/tuning"
)

// Rand is the random source used for placement and colour picks.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Placer finds spawn positions by bounded rejection sampling.
type Placer struct {
	rng Rand
	cfg tuning.PlacementConfig
}

// NewPlacer creates a placer drawing from rng.
func NewPlacer(rng Rand, cfg tuning.PlacementConfig) *Placer {
	return &Placer{rng: rng, cfg: cfg}
}

// FindPosition samples up to MaxAttempts points inside bounds, inset by
// radius plus the edge margin, and returns the first one far enough from
// every existing target. When every attempt collides it returns the last
// candidate with placed=false; an overlapping spawn is a cosmetic flaw,
// not an error.
func (p *Placer) FindPosition(existing []*Target, radius float64, bounds physics.Rect) (pos physics.Point, placed bool) {
	area := bounds.Inset(radius + p.cfg.EdgeMargin)
	attempts := max(p.cfg.MaxAttempts, 1)

	for i := 0; i < attempts; i++ {
		pos = physics.Point{
			X: area.Min.X + p.rng.Float64()*area.Width(),
			Y: area.Min.Y + p.rng.Float64()*area.Height(),
		}
		if p.clear(pos, radius, existing) {
			return pos, true
		}
	}
	return pos, false
}

// MinSeparation is the centre distance a new target of radius r must keep
// from an existing target of radius other.
func (p *Placer) MinSeparation(r, other float64) float64 {
	return math.Max(p.cfg.OverlapFactor*r, r+other)
}

func (p *Placer) clear(pos physics.Point, radius float64, existing []*Target) bool {
	for _, t := range existing {
		sep := p.MinSeparation(radius, t.Radius)
		if physics.DistanceSquared(pos.X, pos.Y, t.X, t.Y) < sep*sep {
			return false
		}
	}
	return true
}
