package session

import "time"

// Event is a fire-and-forget record emitted by the controller for the
// presentation layer. The concrete types below are the full set.
type Event interface {
	// Kind returns a short stable name, used for logging and cue routing.
	Kind() string
}

// Presenter receives session events. Implementations must not call back
// into the Controller while handling an event.
type Presenter interface {
	Present(ev Event)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ev Event)

// Present calls f(ev).
func (f PresenterFunc) Present(ev Event) { f(ev) }

// Countdown is emitted at the start of each pre-roll second.
type Countdown struct {
	Remaining int // Seconds left before the first target, counting down to 1
}

// Started is emitted when the running phase begins.
type Started struct{}

// Spawned is emitted when a new target becomes active.
type Spawned struct {
	ID       TargetID
	X, Y     float64
	Radius   float64
	Color    string
	Lifetime time.Duration
}

// Hit is emitted when the player resolves a target in time.
type Hit struct {
	ID    TargetID
	X, Y  float64
	Color string
	Combo int // Combo after this hit
}

// Missed is emitted when a target expires.
type Missed struct {
	ID   TargetID
	X, Y float64
}

// LifeLost follows a Missed event that did not end the session.
type LifeLost struct {
	LivesRemaining int
}

// Milestone is emitted every MilestoneEvery cumulative hits.
type Milestone struct {
	Wave int
}

// GameOver is the terminal event of a session.
type GameOver struct {
	Score      int
	BestCombo  int
	TargetsHit int
}

func (Countdown) Kind() string { return "countdown" }
func (Started) Kind() string   { return "started" }
func (Spawned) Kind() string   { return "spawned" }
func (Hit) Kind() string       { return "hit" }
func (Missed) Kind() string    { return "missed" }
func (LifeLost) Kind() string  { return "life_lost" }
func (Milestone) Kind() string { return "milestone" }
func (GameOver) Kind() string  { return "game_over" }

// LifetimeMs returns the target lifetime in whole milliseconds.
func (s Spawned) LifetimeMs() int64 { return s.Lifetime.Milliseconds() }
