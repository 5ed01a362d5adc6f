package loop

import (
	"time"

	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/object"
)

// Screen is the host's current screen.
type Screen int

const (
	ScreenMenu    Screen = iota // Title screen
	ScreenPlaying               // Pre-roll countdown and active session
	ScreenOver                  // Final score and restart prompt
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenPlaying:
		return "playing"
	case ScreenOver:
		return "over"
	default:
		return "unknown"
	}
}

// Result is the outcome of the last finished session as shown on the
// game over screen.
type Result struct {
	Score      int
	BestCombo  int
	TargetsHit int
	Elapsed    time.Duration
	Best       int  // Best score after submitting this one
	NewBest    bool // Score was strictly greater than the previous best
}

// State holds per-connection host state. Session counters live in the
// controller; this only tracks what the screens need on top.
type State struct {
	Input   input.Input
	Screen  Screen
	Running bool
	Result  Result
	Best    int // Best score known to this host

	Countdown     int     // Pre-roll number on screen, 0 when none
	LifeLostBlink float64 // Seconds of HUD blinking left
	RestartDelay  float64 // Seconds until the game over screen accepts input

	now        time.Time
	lastFrame  time.Time
	lastInput  time.Time
	delta      time.Duration
	isInactive bool
}

// NewState creates the state of a host sitting on its menu.
func NewState() *State {
	return &State{
		Screen:  ScreenMenu,
		Running: true,
	}
}

// Scene holds the effect objects drawn over the session.
type Scene struct {
	Objects []object.Object
	toSpawn []object.Object // Objects to add after current update cycle
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (s *Scene) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued objects to the scene and clears the queue.
func (s *Scene) FlushSpawned() {
	s.Objects = append(s.Objects, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// Update advances every object, releasing the ones that finish, then adds
// whatever was spawned along the way.
func (s *Scene) Update(ctx object.UpdateContext) error {
	ctx.Spawner = s
	kept := s.Objects[:0]
	for i, obj := range s.Objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			kept = append(kept, s.Objects[i:]...)
			s.Objects = kept
			return err
		}
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(s.Objects[len(kept):])
	s.Objects = kept
	s.FlushSpawned()
	return nil
}

// Clear releases every object.
func (s *Scene) Clear() {
	for _, obj := range s.Objects {
		object.ReleaseObject(obj)
	}
	for _, obj := range s.toSpawn {
		object.ReleaseObject(obj)
	}
	clear(s.Objects)
	clear(s.toSpawn)
	s.Objects = s.Objects[:0]
	s.toSpawn = s.toSpawn[:0]
}
