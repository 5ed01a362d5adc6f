package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/tuning"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// seqRand replays a fixed sequence of floats and counts draws.
type seqRand struct {
	floats []float64
	calls  int
}

func (r *seqRand) Float64() float64 {
	v := r.floats[r.calls%len(r.floats)]
	r.calls++
	return v
}

func (r *seqRand) IntN(n int) int { return 0 }

// recorder collects presented events.
type recorder struct {
	events []Event
}

func (r *recorder) Present(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind()
	}
	return out
}

func (r *recorder) reset() {
	r.events = r.events[:0]
}

func newTestController(t *testing.T, mutate func(*tuning.Config)) (*Controller, *recorder) {
	t.Helper()
	cfg := tuning.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	rec := &recorder{}
	c := New(Options{
		Config:    &cfg,
		Rand:      rand.New(rand.NewPCG(7, 11)),
		Presenter: rec,
	})
	return c, rec
}

// startRunning starts a session at t0 and ticks through the pre-roll.
// Returns the time the running phase began.
func startRunning(t *testing.T, c *Controller) time.Time {
	t.Helper()
	c.Start(t0)
	begin := t0.Add(c.Config().Session.Countdown)
	c.Tick(begin)
	if c.Phase() != PhaseRunning {
		t.Fatalf("phase = %v after countdown, want running", c.Phase())
	}
	return begin
}

// playHits hits the oldest active target every step until n hits land.
func playHits(t *testing.T, c *Controller, now time.Time, n int) time.Time {
	t.Helper()
	const step = 250 * time.Millisecond
	for guard := 0; c.State().TargetsHit < n; guard++ {
		if guard > 10_000 {
			t.Fatalf("stuck at %d hits", c.State().TargetsHit)
		}
		if ts := c.Targets(); len(ts) > 0 {
			if !c.RequestHit(ts[0].ID, now) {
				t.Fatalf("RequestHit(%d) rejected", ts[0].ID)
			}
			continue
		}
		now = now.Add(step)
		c.Tick(now)
		if c.Phase() != PhaseRunning {
			t.Fatalf("session ended while playing hits: %+v", c.State())
		}
	}
	return now
}
