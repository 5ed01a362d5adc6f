// Package loop provides the terminal host: the frame loop that drives one
// session controller per connection and the menu, playing and game over
// screens around it.
package loop

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/feedback"
	"github.com/tomz197/reflex/internal/highscore"
	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/loop/config"
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/session"
	"github.com/tomz197/reflex/internal/tuning"
)

// HighScores is the persisted best score. *highscore.Store implements it.
type HighScores interface {
	Best() (int, error)
	Submit(score int) (best int, isNew bool, err error)
}

// Options configures a Host. Zero values select defaults.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // nil uses the local terminal
	Renderer     *lipgloss.Renderer // nil uses lipgloss's default renderer
	Logger       *log.Logger        // nil discards
	Tuning       *tuning.Config     // nil uses tuning.Default()
	Rand         session.Rand       // nil seeds from the clock
	HighScores   HighScores         // nil keeps the best score in memory
	Cues         feedback.CuePlayer // nil plays nothing
	Haptics      feedback.Haptics   // nil vibrates nothing
	Username     string
	IdleTimeout  bool // Warn and then disconnect players who stop typing
}

// Host runs the screens and the session for a single terminal.
type Host struct {
	ctrl         *session.Controller
	state        *State
	scene        Scene
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates the frame for chunked output
	overlay      object.Overlay
	styles       styles
	renderer     *lipgloss.Renderer
	writer       io.Writer
	termSizeFunc draw.TermSizeFunc
	highScores   HighScores
	logger       *log.Logger
	username     string
	idleTimeout  bool
	field        tuning.FieldConfig

	radii      map[session.TargetID]float64 // Radius of each live target, for miss rings
	pendingEnd *session.GameOver            // Set by Present, consumed after Tick
}

// NewHost creates a host that renders to w.
func NewHost(w io.Writer, opts Options) *Host {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	scores := opts.HighScores
	if scores == nil {
		scores = highscore.NewStore("")
	}
	cfg := tuning.Default()
	if opts.Tuning != nil {
		cfg = *opts.Tuning
	}

	h := &Host{
		state:        NewState(),
		renderer:     renderer,
		styles:       newStyles(renderer),
		writer:       w,
		termSizeFunc: termSizeFunc,
		highScores:   scores,
		logger:       logger,
		username:     opts.Username,
		idleTimeout:  opts.IdleTimeout,
		field:        cfg.Field,
		radii:        make(map[session.TargetID]float64),
	}

	h.ctrl = session.New(session.Options{
		Config: &cfg,
		Rand:   opts.Rand,
		Presenter: feedback.Fanout{
			session.PresenterFunc(h.present),
			feedback.New(opts.Cues, opts.Haptics, logger),
			feedback.Logged(logger),
		},
		Logger: logger,
	})

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	h.canvas = draw.NewScaledCanvas(renderer, renderWidth, renderHeight, cfg.Field.Width, cfg.Field.Height)
	h.canvas.SetOffset(offsetCol, offsetRow)
	h.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)

	if best, err := scores.Best(); err != nil {
		logger.Warn("high score unavailable", "err", err)
	} else {
		h.state.Best = best
	}
	return h
}

// Run hosts sessions on a terminal until the player quits, the input ends
// or the player idles out.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return NewHost(w, opts).Run(input.StartStream(r))
}

// Run starts the frame loop. Blocks until the host stops.
func (h *Host) Run(stream *input.Stream) error {
	draw.HideCursor(h.writer)
	draw.EnableMouse(h.writer)
	defer draw.ShowCursor(h.writer)
	defer draw.DisableMouse(h.writer)
	draw.ClearScreen(h.writer)

	for h.state.Running {
		frameStart := time.Now()

		h.Step(frameStart, input.ReadInput(stream))
		if stream.Closed() {
			h.state.Running = false
		}

		if err := h.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(h.writer)
	h.logger.Info("host stopped", "best", h.state.Best)
	return nil
}

// State returns the host state.
func (h *Host) State() *State {
	return h.state
}

// Controller returns the session controller the host drives.
func (h *Host) Controller() *session.Controller {
	return h.ctrl
}

// Step advances the host by one frame: input first, so that a hit typed
// in this frame beats an expiry due in it, then the session clock, then
// the effects.
func (h *Host) Step(now time.Time, inp input.Input) {
	if h.state.lastFrame.IsZero() {
		h.state.lastInput = now
		h.state.delta = 0
	} else {
		h.state.delta = now.Sub(h.state.lastFrame)
	}
	h.state.lastFrame = now
	h.state.now = now

	h.processInput(now, inp)
	if !h.state.Running {
		return
	}
	h.updateScreen()

	switch h.state.Screen {
	case ScreenMenu:
		h.updateMenuState(now)
	case ScreenPlaying:
		h.updatePlayingState(now)
	case ScreenOver:
		h.updateOverState(now)
	}

	dt := h.state.delta.Seconds()
	h.state.LifeLostBlink = max(h.state.LifeLostBlink-dt, 0)
	if err := h.scene.Update(object.UpdateContext{Delta: h.state.delta}); err != nil {
		h.logger.Error("effect update failed", "err", err)
	}
}

// processInput records the frame's input and tracks inactivity.
func (h *Host) processInput(now time.Time, inp input.Input) {
	h.state.Input = inp

	idle := now.Sub(h.state.lastInput).Seconds()
	switch {
	case inp.Any():
		h.state.lastInput = now
		h.state.isInactive = false
	case h.idleTimeout && idle > config.InactivityDisconnectUser:
		h.logger.Info("disconnecting inactive player", "idle", idle)
		h.state.Running = false
	case h.idleTimeout && idle > config.InactivityWarnUser:
		h.state.isInactive = true
	}

	if inp.Quit {
		h.state.Running = false
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (h *Host) updateScreen() {
	termWidth, termHeight, err := h.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	h.canvas.Resize(renderWidth, renderHeight)
	h.canvas.SetOffset(offsetCol, offsetRow)
	h.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateMenuState handles the title screen.
func (h *Host) updateMenuState(now time.Time) {
	if h.state.Input.Space || h.state.Input.Enter {
		h.startSession(now)
	}
}

// updatePlayingState forwards the frame's hits to the controller and then
// advances its clock.
func (h *Host) updatePlayingState(now time.Time) {
	if h.state.Input.Escape {
		h.logger.Info("session abandoned", "score", h.ctrl.State().Score)
		h.state.Screen = ScreenMenu
		h.state.Countdown = 0
		h.scene.Clear()
		return
	}

	for _, key := range h.state.Input.Letters {
		if id, ok := h.targetForLabel(key); ok {
			h.ctrl.RequestHit(id, now)
		}
	}
	for _, click := range h.state.Input.Clicks {
		if click.Button != 0 {
			continue
		}
		if x, y, ok := h.canvas.TerminalToLogical(click.Col, click.Row); ok {
			h.ctrl.HitAt(x, y, now)
		}
	}

	h.ctrl.Tick(now)

	if end := h.pendingEnd; end != nil {
		h.pendingEnd = nil
		h.finishSession(*end)
	}
}

// updateOverState handles the game over screen.
func (h *Host) updateOverState(now time.Time) {
	if h.state.RestartDelay > 0 {
		h.state.RestartDelay = max(h.state.RestartDelay-h.state.delta.Seconds(), 0)
		return
	}
	if h.state.Input.Space || h.state.Input.Enter {
		h.startSession(now)
	}
}

// startSession starts or restarts the session.
func (h *Host) startSession(now time.Time) {
	h.scene.Clear()
	clear(h.radii)
	h.pendingEnd = nil
	h.state.Countdown = 0
	h.state.LifeLostBlink = 0
	h.state.Result = Result{}
	h.state.Screen = ScreenPlaying

	h.logger.Info("session starting", "user", h.username, "best", h.state.Best)
	h.ctrl.Start(now)
}

// finishSession submits the final score and switches to the game over
// screen.
func (h *Host) finishSession(end session.GameOver) {
	res := Result{
		Score:      end.Score,
		BestCombo:  end.BestCombo,
		TargetsHit: end.TargetsHit,
		Elapsed:    h.ctrl.State().Elapsed,
		Best:       max(h.state.Best, end.Score),
	}
	best, isNew, err := h.highScores.Submit(end.Score)
	if err != nil {
		h.logger.Warn("high score not saved", "score", end.Score, "err", err)
		res.NewBest = end.Score > h.state.Best
	} else {
		res.Best = best
		res.NewBest = isNew
	}
	if res.NewBest {
		h.logger.Info("new best score", "user", h.username, "score", end.Score)
	}

	h.state.Best = res.Best
	h.state.Result = res
	h.state.Countdown = 0
	h.state.RestartDelay = config.RestartDelaySeconds
	h.state.Screen = ScreenOver
}

// labelFor returns the key that hits the target with the given id.
func labelFor(id session.TargetID) byte {
	if id == 0 {
		return 0
	}
	return config.Labels[(uint64(id)-1)%uint64(len(config.Labels))]
}

// targetForLabel finds the newest active target carrying the label.
func (h *Host) targetForLabel(key byte) (session.TargetID, bool) {
	targets := h.ctrl.Targets()
	for i := len(targets) - 1; i >= 0; i-- {
		if labelFor(targets[i].ID) == key {
			return targets[i].ID, true
		}
	}
	return 0, false
}
