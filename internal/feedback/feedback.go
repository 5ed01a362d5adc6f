// Package feedback turns session events into sound cues and haptic pulses.
//
// Both outputs are best-effort: a missing audio device or a terminal that
// cannot ring never reaches the session, it is only logged.
package feedback

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reflex/internal/session"
)

// Cue names a short sound effect.
type Cue string

const (
	CuePop       Cue = "pop"       // Target hit
	CueWhoosh    Cue = "whoosh"    // Target spawned
	CueMiss      Cue = "miss"      // Target expired
	CueLifeLost  Cue = "life_lost" // Miss that did not end the session
	CueMilestone Cue = "milestone"
	CueGameOver  Cue = "game_over"
	CueCountdown Cue = "countdown" // One pre-roll second
	CueGo        Cue = "go"        // Pre-roll finished
)

// Cues lists every cue in a stable order.
var Cues = []Cue{CuePop, CueWhoosh, CueMiss, CueLifeLost, CueMilestone, CueGameOver, CueCountdown, CueGo}

// Pulse lengths for haptic feedback.
const (
	LifeLostPulse = 200 * time.Millisecond
	GameOverPulse = 400 * time.Millisecond
)

// CuePlayer plays a named sound effect.
type CuePlayer interface {
	PlayCue(c Cue) error
}

// Haptics produces a physical pulse of roughly the given length.
type Haptics interface {
	Vibrate(d time.Duration) error
}

// Presenter routes session events to a CuePlayer and Haptics.
type Presenter struct {
	cues    CuePlayer
	haptics Haptics
	logger  *log.Logger
}

// New creates a presenter. Nil collaborators are skipped.
func New(cues CuePlayer, haptics Haptics, logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Presenter{cues: cues, haptics: haptics, logger: logger}
}

// CueFor returns the cue for an event, if it has one.
func CueFor(ev session.Event) (Cue, bool) {
	switch ev.(type) {
	case session.Countdown:
		return CueCountdown, true
	case session.Started:
		return CueGo, true
	case session.Spawned:
		return CueWhoosh, true
	case session.Hit:
		return CuePop, true
	case session.Missed:
		return CueMiss, true
	case session.LifeLost:
		return CueLifeLost, true
	case session.Milestone:
		return CueMilestone, true
	case session.GameOver:
		return CueGameOver, true
	}
	return "", false
}

// PulseFor returns the haptic pulse for an event, if it has one.
func PulseFor(ev session.Event) (time.Duration, bool) {
	switch ev.(type) {
	case session.LifeLost:
		return LifeLostPulse, true
	case session.GameOver:
		return GameOverPulse, true
	}
	return 0, false
}

// Present implements session.Presenter.
func (p *Presenter) Present(ev session.Event) {
	if cue, ok := CueFor(ev); ok && p.cues != nil {
		if err := p.cues.PlayCue(cue); err != nil {
			p.logger.Debug("cue dropped", "cue", cue, "err", err)
		}
	}
	if d, ok := PulseFor(ev); ok && p.haptics != nil {
		if err := p.haptics.Vibrate(d); err != nil {
			p.logger.Debug("haptics unavailable", "event", ev.Kind(), "err", err)
		}
	}
}

// Fanout delivers every event to each presenter in order.
type Fanout []session.Presenter

// Present implements session.Presenter.
func (f Fanout) Present(ev session.Event) {
	for _, p := range f {
		if p != nil {
			p.Present(ev)
		}
	}
}

// Logged returns a presenter that logs each event at debug level.
func Logged(logger *log.Logger) session.Presenter {
	return session.PresenterFunc(func(ev session.Event) {
		logger.Debug("event", "kind", ev.Kind(), "data", ev)
	})
}
