// Package session implements the reaction-test session core: the
// difficulty curve, target placement, the per-target countdown and the
// score/combo/lives state machine that reacts to target outcomes.
//
// The core never reads the clock. Every operation takes the current time
// explicitly, timers are driven by Tick, and all presentation happens
// downstream of the events handed to the Presenter.
package session

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reflex/internal/physics"
	"github.com/tomz197/reflex/internal/schedule"
	"github.com/tomz197/reflex/internal/tuning"
)

// Phase is the controller's top-level state.
type Phase int

const (
	PhaseIdle    Phase = iota // Created, Start not yet called
	PhasePreRoll              // Get-ready countdown, no gameplay timers
	PhaseRunning              // Targets spawn and expire
	PhaseOver                 // Terminal until the next Start
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreRoll:
		return "pre-roll"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session counters.
type State struct {
	Score      int
	Lives      int
	MaxLives   int
	Combo      int
	BestCombo  int
	TargetsHit int
	Elapsed    time.Duration // Since the running phase began; frozen at game over
	IsOver     bool
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Config    *tuning.Config // nil uses tuning.Default()
	Rand      Rand           // nil uses a time-seeded PCG source
	Presenter Presenter      // nil drops every event
	Logger    *log.Logger    // nil discards
}

// Controller owns one session: its timers, its active targets and its
// counters. It is not safe for concurrent use; hosts drive it from a single
// goroutine, delivering the frame's hit requests before calling Tick.
type Controller struct {
	cfg       tuning.Config
	curve     Curve
	placer    *Placer
	rng       Rand
	bounds    physics.Rect
	presenter Presenter
	logger    *log.Logger

	timers     *schedule.Queue
	spawnTimer schedule.ID

	phase        Phase
	state        State
	runningSince time.Time
	now          time.Time // Latest time seen by any operation

	active  []*Target
	scratch []*Target // Reused by Tick to iterate while resolving
	nextID  TargetID
}

// New creates an idle controller. An invalid Config is replaced by the
// defaults.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := tuning.Default()
	if opts.Config != nil {
		if err := opts.Config.Validate(); err != nil {
			logger.Warn("invalid tuning, using defaults", "err", err)
		} else {
			cfg = *opts.Config
		}
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	f := cfg.Field
	return &Controller{
		cfg:       cfg,
		curve:     NewCurve(cfg.Difficulty),
		placer:    NewPlacer(rng, cfg.Placement),
		rng:       rng,
		bounds:    physics.NewRect(0, f.HUDHeight, f.Width, f.Height-f.HUDHeight),
		presenter: opts.Presenter,
		logger:    logger,
		timers:    schedule.NewQueue(),
	}
}

// Config returns the tuning the controller was built with.
func (c *Controller) Config() tuning.Config {
	return c.cfg
}

// Curve returns the difficulty curve in use.
func (c *Controller) Curve() Curve {
	return c.curve
}

// Bounds returns the area targets are placed in.
func (c *Controller) Bounds() physics.Rect {
	return c.bounds
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns a snapshot of the counters.
func (c *Controller) State() State {
	s := c.state
	if c.phase == PhaseRunning {
		s.Elapsed = c.now.Sub(c.runningSince)
	}
	return s
}

// Targets returns copies of the active targets in spawn order.
func (c *Controller) Targets() []Target {
	out := make([]Target, len(c.active))
	for i, t := range c.active {
		out[i] = *t
	}
	return out
}

// Start resets the counters, discards any previous session and enters the
// pre-roll countdown. The first target spawns once the countdown elapses.
func (c *Controller) Start(now time.Time) {
	c.timers.Clear()
	c.spawnTimer = 0
	c.active = nil
	c.nextID = 0
	c.now = now
	c.runningSince = time.Time{}

	lives := c.cfg.Session.MaxLives
	c.state = State{Lives: lives, MaxLives: lives}
	c.phase = PhasePreRoll
	c.logger.Info("session pre-roll", "countdown", c.cfg.Session.Countdown, "lives", lives)

	countdown := c.cfg.Session.Countdown
	if countdown <= 0 {
		c.enterRunning(now)
		return
	}

	secs := int(math.Ceil(countdown.Seconds()))
	for remaining := secs; remaining >= 1; remaining-- {
		at := now.Add(countdown - time.Duration(remaining)*time.Second)
		if !at.After(now) {
			c.emit(Countdown{Remaining: remaining})
			continue
		}
		c.timers.At(at, func(time.Time) {
			if c.phase == PhasePreRoll {
				c.emit(Countdown{Remaining: remaining})
			}
		})
	}
	c.timers.At(now.Add(countdown), func(at time.Time) {
		if c.phase == PhasePreRoll {
			c.enterRunning(at)
		}
	})
}

// Tick fires every timer due by now, then advances the countdown of each
// active target; a target whose countdown runs out counts as a miss.
func (c *Controller) Tick(now time.Time) {
	c.observe(now)
	c.timers.Advance(now)
	if c.phase != PhaseRunning {
		return
	}

	c.scratch = append(c.scratch[:0], c.active...)
	for _, t := range c.scratch {
		if c.phase != PhaseRunning {
			break
		}
		if t.Tick(now) {
			c.onMiss(t, now)
		}
	}
	clear(c.scratch)
}

// RequestHit resolves the target with the given id as hit. Requests for
// unknown or already resolved targets, or outside the running phase, are
// ignored and report false.
func (c *Controller) RequestHit(id TargetID, now time.Time) bool {
	c.observe(now)
	if c.phase != PhaseRunning {
		c.logger.Debug("hit ignored", "target", id, "phase", c.phase)
		return false
	}
	t := c.find(id)
	if t == nil || !t.RequestHit(now) {
		c.logger.Debug("hit ignored", "target", id, "reason", "not active")
		return false
	}
	c.onHit(t)
	return true
}

// HitAt resolves the topmost active target under the point, if any.
// Clicking empty space has no effect on the session.
func (c *Controller) HitAt(x, y float64, now time.Time) (TargetID, bool) {
	if c.phase != PhaseRunning {
		c.observe(now)
		return 0, false
	}
	for i := len(c.active) - 1; i >= 0; i-- {
		if t := c.active[i]; t.Contains(x, y) {
			return t.ID, c.RequestHit(t.ID, now)
		}
	}
	c.observe(now)
	return 0, false
}

func (c *Controller) enterRunning(at time.Time) {
	c.phase = PhaseRunning
	c.runningSince = at
	c.logger.Info("session running")
	c.emit(Started{})

	c.spawn(at)
	c.armSpawn(at, c.curve.SpawnInterval(0))
}

func (c *Controller) armSpawn(from time.Time, interval time.Duration) {
	c.spawnTimer = c.timers.After(from, interval, c.onSpawnTimer)
}

func (c *Controller) onSpawnTimer(at time.Time) {
	if c.phase != PhaseRunning || c.state.IsOver {
		c.logger.Debug("spawn timer ignored", "phase", c.phase)
		return
	}
	c.spawn(at)
	c.armSpawn(at, c.curve.SpawnInterval(at.Sub(c.runningSince)))
}

func (c *Controller) spawn(at time.Time) {
	elapsed := at.Sub(c.runningSince)
	hits := c.state.TargetsHit

	radius := c.curve.TargetRadius(elapsed, hits)
	pos, placed := c.placer.FindPosition(c.active, radius, c.bounds)
	if !placed {
		c.logger.Debug("placement exhausted, accepting overlap", "x", pos.X, "y", pos.Y, "active", len(c.active))
	}
	lifetime := c.curve.TargetLifetime(elapsed, hits)
	color := c.cfg.Palette[c.rng.IntN(len(c.cfg.Palette))]

	c.nextID++
	t := NewTarget(c.nextID, pos.X, pos.Y, radius, color, at, lifetime)
	c.active = append(c.active, t)

	c.emit(Spawned{
		ID:       t.ID,
		X:        t.X,
		Y:        t.Y,
		Radius:   t.Radius,
		Color:    t.Color,
		Lifetime: t.Lifetime,
	})
}

func (c *Controller) onHit(t *Target) {
	c.remove(t)

	s := &c.state
	s.Score++
	s.TargetsHit++
	s.Combo++
	s.BestCombo = max(s.BestCombo, s.Combo)

	c.emit(Hit{ID: t.ID, X: t.X, Y: t.Y, Color: t.Color, Combo: s.Combo})

	if every := c.cfg.Session.MilestoneEvery; every > 0 && s.TargetsHit%every == 0 {
		wave := s.TargetsHit / every
		c.logger.Info("milestone", "wave", wave, "score", s.Score)
		c.emit(Milestone{Wave: wave})
	}
}

func (c *Controller) onMiss(t *Target, at time.Time) {
	c.remove(t)

	s := &c.state
	s.Lives--
	s.Combo = 0
	c.emit(Missed{ID: t.ID, X: t.X, Y: t.Y})

	if s.Lives <= 0 {
		s.Lives = 0
		c.gameOver(at)
		return
	}
	c.emit(LifeLost{LivesRemaining: s.Lives})
}

func (c *Controller) gameOver(at time.Time) {
	s := &c.state
	s.IsOver = true
	s.Elapsed = at.Sub(c.runningSince)
	c.phase = PhaseOver

	c.timers.Cancel(c.spawnTimer)
	c.spawnTimer = 0
	c.active = nil

	c.logger.Info("session over", "score", s.Score, "best_combo", s.BestCombo, "targets_hit", s.TargetsHit, "elapsed", s.Elapsed)
	c.emit(GameOver{Score: s.Score, BestCombo: s.BestCombo, TargetsHit: s.TargetsHit})
}

func (c *Controller) find(id TargetID) *Target {
	for _, t := range c.active {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (c *Controller) remove(t *Target) {
	for i, a := range c.active {
		if a == t {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

func (c *Controller) observe(now time.Time) {
	if now.After(c.now) {
		c.now = now
	}
}

func (c *Controller) emit(ev Event) {
	if c.presenter != nil {
		c.presenter.Present(ev)
	}
}
