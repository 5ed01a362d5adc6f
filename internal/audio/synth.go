package audio

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/reflex/internal/feedback"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSquare
	WaveSaw
	WaveNoise // Band-passed white noise; From/To sweep the band centre
)

// silence is the level an exponential decay ends on.
const silence = 0.01

// Voice is one oscillator with a pitch glide and a gain envelope. A cue is
// a handful of voices mixed together.
type Voice struct {
	Wave     Wave
	From, To float64       // Hz
	Sweep    time.Duration // Exponential glide From->To; zero holds From
	Delay    time.Duration // Silence before the voice starts
	Attack   time.Duration // Linear rise 0->Peak
	Hold     time.Duration // Decay starts here, measured from the voice start
	Length   time.Duration
	Peak     float64
}

var (
	milestoneNotes = []float64{523.25, 659.25, 783.99, 1046.50} // C5 E5 G5 C6
	gameOverNotes  = []float64{392, 349.23, 293.66, 261.63}     // G4 F4 D4 C4
)

var patches = map[feedback.Cue][]Voice{
	feedback.CuePop: {
		{Wave: WaveSine, From: 880, To: 440, Sweep: 100 * time.Millisecond, Length: 150 * time.Millisecond, Peak: 0.3},
		{Wave: WaveTriangle, From: 1200, To: 600, Sweep: 50 * time.Millisecond, Length: 50 * time.Millisecond, Peak: 0.2},
	},
	feedback.CueWhoosh: {
		{Wave: WaveNoise, From: 2000, To: 500, Sweep: 150 * time.Millisecond, Length: 150 * time.Millisecond, Peak: 0.15},
	},
	feedback.CueMiss: {
		{Wave: WaveSaw, From: 200, To: 80, Sweep: 300 * time.Millisecond, Length: 300 * time.Millisecond, Peak: 0.2},
		{Wave: WaveSquare, From: 150, To: 60, Sweep: 250 * time.Millisecond, Length: 250 * time.Millisecond, Peak: 0.1},
	},
	// 400 -> 200 -> 100 Hz over two equal exponential steps is one glide.
	feedback.CueLifeLost: {
		{Wave: WaveTriangle, From: 400, To: 100, Sweep: 400 * time.Millisecond, Hold: 350 * time.Millisecond, Length: 500 * time.Millisecond, Peak: 0.25},
	},
	feedback.CueMilestone: notes(milestoneNotes, WaveSine, 80*time.Millisecond, 20*time.Millisecond, 20*time.Millisecond, 200*time.Millisecond),
	feedback.CueGameOver:  notes(gameOverNotes, WaveTriangle, 200*time.Millisecond, 50*time.Millisecond, 150*time.Millisecond, 300*time.Millisecond),
	feedback.CueCountdown: {
		{Wave: WaveSine, From: 660, To: 660, Length: 150 * time.Millisecond, Peak: 0.25},
	},
	feedback.CueGo: {
		{Wave: WaveSine, From: 880, To: 880, Length: 300 * time.Millisecond, Peak: 0.25},
	},
}

func notes(freqs []float64, wave Wave, step, attack, hold, length time.Duration) []Voice {
	out := make([]Voice, len(freqs))
	for i, f := range freqs {
		out[i] = Voice{
			Wave:   wave,
			From:   f,
			To:     f,
			Delay:  time.Duration(i) * step,
			Attack: attack,
			Hold:   hold,
			Length: length,
			Peak:   0.2,
		}
	}
	return out
}

// Duration returns how long a cue plays.
func Duration(c feedback.Cue) time.Duration {
	var d time.Duration
	for _, v := range patches[c] {
		d = max(d, v.Delay+v.Length)
	}
	return d
}

// Synth builds a one-shot streamer for the cue.
func Synth(c feedback.Cue, rate beep.SampleRate) (beep.Streamer, error) {
	voices, ok := patches[c]
	if !ok {
		return nil, fmt.Errorf("unknown cue %q", c)
	}
	streamers := make([]beep.Streamer, len(voices))
	for i, v := range voices {
		streamers[i] = newVoice(v, rate)
	}
	return beep.Mix(streamers...), nil
}

// voice streams a single Voice.
type voice struct {
	Voice
	rate beep.SampleRate

	delay, length int // In samples
	pos           int // Samples since the voice started, excluding delay
	waited        int
	phase         float64

	rng       *rand.Rand
	low, band float64 // State-variable filter for noise
}

func newVoice(v Voice, rate beep.SampleRate) *voice {
	seed := uint64(time.Now().UnixNano())
	return &voice{
		Voice:  v,
		rate:   rate,
		delay:  rate.N(v.Delay),
		length: rate.N(v.Length),
		rng:    rand.New(rand.NewPCG(seed, seed>>11|1)),
	}
}

func (s *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.length {
			return i, i > 0
		}
		var val float64
		if s.waited < s.delay {
			s.waited++
		} else {
			t := float64(s.pos) / float64(s.rate)
			val = s.sample(s.freq(t)) * s.gain(t)
			s.pos++
		}
		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (s *voice) Err() error { return nil }

func (s *voice) freq(t float64) float64 {
	if s.Sweep <= 0 || s.From <= 0 || s.To <= 0 {
		return s.From
	}
	k := math.Min(t/s.Sweep.Seconds(), 1)
	return s.From * math.Pow(s.To/s.From, k)
}

// gain rises linearly over Attack, holds Peak until Hold, then decays
// exponentially to silence at Length.
func (s *voice) gain(t float64) float64 {
	attack := s.Attack.Seconds()
	hold := max(s.Hold.Seconds(), attack)
	length := s.Length.Seconds()

	switch {
	case t < attack:
		return s.Peak * t / attack
	case t < hold || length <= hold:
		return s.Peak
	}
	k := math.Min((t-hold)/(length-hold), 1)
	return s.Peak * math.Pow(silence/s.Peak, k)
}

func (s *voice) sample(freq float64) float64 {
	if s.Wave == WaveNoise {
		return s.bandpass(s.rng.Float64()*2-1, freq)
	}

	var val float64
	switch s.Wave {
	case WaveSine:
		val = math.Sin(2 * math.Pi * s.phase)
	case WaveTriangle:
		val = 1 - 4*math.Abs(s.phase-0.5)
	case WaveSquare:
		if s.phase < 0.5 {
			val = 1
		} else {
			val = -1
		}
	case WaveSaw:
		val = 2 * (s.phase - 0.5)
	}
	s.phase += freq / float64(s.rate)
	s.phase -= math.Floor(s.phase)
	return val
}

// bandpass is a Chamberlin state-variable filter with Q=1.
func (s *voice) bandpass(in, centre float64) float64 {
	f := 2 * math.Sin(math.Pi*math.Min(centre, float64(s.rate)/6)/float64(s.rate))
	high := in - s.low - s.band
	s.band += f * high
	s.low += f * s.band
	return math.Max(-1, math.Min(1, s.band))
}
