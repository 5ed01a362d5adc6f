package session

import (
	"time"

	"github.com/tomz197/reflex/internal/physics"
)

// TargetID identifies a target within one session.
type TargetID uint64

// TargetState is the resolution state of a target.
type TargetState int

const (
	TargetActive  TargetState = iota // Waiting for a hit
	TargetHit                        // Resolved by the player
	TargetExpired                    // Countdown ran out
)

func (s TargetState) String() string {
	switch s {
	case TargetActive:
		return "active"
	case TargetHit:
		return "hit"
	case TargetExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Target is a single timed entity. Position, size, colour and timing are
// fixed at creation; only the state changes, and only once.
type Target struct {
	ID        TargetID
	X, Y      float64
	Radius    float64
	Color     string
	SpawnedAt time.Time
	Lifetime  time.Duration

	state TargetState
}

// NewTarget creates an active target.
func NewTarget(id TargetID, x, y, radius float64, color string, spawnedAt time.Time, lifetime time.Duration) *Target {
	return &Target{
		ID:        id,
		X:         x,
		Y:         y,
		Radius:    radius,
		Color:     color,
		SpawnedAt: spawnedAt,
		Lifetime:  lifetime,
		state:     TargetActive,
	}
}

// State returns the current resolution state.
func (t *Target) State() TargetState {
	return t.state
}

// Active reports whether the target is still unresolved.
func (t *Target) Active() bool {
	return t.state == TargetActive
}

// RemainingFraction returns the share of the lifetime left at now, in [0, 1].
func (t *Target) RemainingFraction(now time.Time) float64 {
	if t.Lifetime <= 0 {
		return 0
	}
	remaining := t.Lifetime - now.Sub(t.SpawnedAt)
	return physics.Clamp(float64(remaining)/float64(t.Lifetime), 0, 1)
}

// Contains reports whether the point lies on the target.
func (t *Target) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, t.X, t.Y, t.Radius)
}

// Tick expires the target once its countdown reaches zero. Returns true
// only on the call that performs the transition.
func (t *Target) Tick(now time.Time) bool {
	if t.state != TargetActive {
		return false
	}
	if t.RemainingFraction(now) > 0 {
		return false
	}
	t.state = TargetExpired
	return true
}

// RequestHit resolves an active target as hit. Returns false when the
// target was already resolved and the request was ignored.
func (t *Target) RequestHit(now time.Time) bool {
	if t.state != TargetActive {
		return false
	}
	t.state = TargetHit
	return true
}
