// Package audio synthesises the session's sound cues with beep and plays
// them on the local speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/reflex/internal/feedback"
)

// SampleRate is the rate cues are rendered at.
const SampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by PlayCue before Init succeeded.
var ErrNotInitialized = errors.New("audio not initialized")

// Player mixes cues into a single speaker stream. It implements
// feedback.CuePlayer.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates a player. volume is linear, 1 is unity gain.
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker. Without an audio device it returns an error and
// the player stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("opening speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayCue implements feedback.CuePlayer.
func (p *Player) PlayCue(c feedback.Cue) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	s, err := Synth(c, SampleRate)
	if err != nil {
		return err
	}
	speaker.Lock()
	p.mixer.Add(withVolume(s, p.volume))
	speaker.Unlock()
	return nil
}

// Close silences anything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// withVolume scales a stream linearly; math.Log2(0) is -Inf, so zero is
// handled as silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
