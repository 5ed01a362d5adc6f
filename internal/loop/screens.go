package loop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/reflex/internal/loop/config"
	"github.com/tomz197/reflex/internal/object"
)

// styles are built once per renderer so colours match the terminal on the
// other end of the connection.
type styles struct {
	title  lipgloss.Style
	box    lipgloss.Style
	text   lipgloss.Style
	dim    lipgloss.Style
	accent lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	popup  lipgloss.Style
	digit  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e94560")),
		box:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#533483")).Padding(1, 4).Align(lipgloss.Center),
		text:   r.NewStyle().Foreground(lipgloss.Color("#e0e0e0")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#808080")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#00b4d8")),
		good:   r.NewStyle().Foreground(lipgloss.Color("#90be6d")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("#ff3b3b")),
		popup:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f7d354")),
		digit:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f77f00")),
	}
}

// drawFrame draws the current frame. The render area is cleared every
// frame; the whole frame goes out in one flush.
func (h *Host) drawFrame() error {
	cw := h.chunkWriter
	cw.WriteString("\033[H\033[2J")
	h.canvas.Clear()

	ctx := object.DrawContext{
		Canvas:   h.canvas,
		Overlay:  &h.overlay,
		Renderer: h.renderer,
	}

	if h.state.Screen == ScreenPlaying {
		now := h.state.now
		for _, t := range h.ctrl.Targets() {
			sprite := object.TargetSprite{
				X:         t.X,
				Y:         t.Y,
				Radius:    t.Radius,
				Color:     t.Color,
				Remaining: t.RemainingFraction(now),
				Label:     labelFor(t.ID),
			}
			if err := sprite.Draw(ctx); err != nil {
				return err
			}
		}
	}

	for _, obj := range h.scene.Objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	h.canvas.Render(cw)

	// Draw border when terminal exceeds max render resolution
	h.canvas.RenderBorder(cw)

	// Labels and popups go over the pixels
	h.overlay.Flush(cw)

	h.drawUI()

	return cw.Flush()
}

// drawUI draws the screen-specific text.
func (h *Host) drawUI() {
	termWidth := h.canvas.TerminalWidth()
	termHeight := h.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if h.state.isInactive {
		h.drawInactivityScreen(centerX, centerY)
		return
	}

	switch h.state.Screen {
	case ScreenMenu:
		h.drawStartScreen(centerX, centerY)
	case ScreenPlaying:
		h.drawPlayingHUD(termWidth, centerX, centerY)
	case ScreenOver:
		h.drawGameOverScreen(centerX, centerY)
	}
}

// writeBlock writes a multi-line string centred on (centerX, centerY).
func (h *Host) writeBlock(centerX, centerY int, block string) {
	lines := strings.Split(block, "\n")
	col := centerX - lipgloss.Width(block)/2
	row := centerY - len(lines)/2
	for i, line := range lines {
		h.chunkWriter.WriteAt(col, row+i, line)
	}
}

// writeCentered writes one line centred on col.
func (h *Host) writeCentered(col, row int, s string) {
	h.chunkWriter.WriteAt(col-lipgloss.Width(s)/2, row, s)
}

// blinkOn is the phase of the 600ms prompt blink.
func (h *Host) blinkOn() bool {
	return h.state.now.UnixMilli()/600%2 == 0
}

// drawStartScreen draws the title screen.
func (h *Host) drawStartScreen(centerX, centerY int) {
	s := h.styles
	greeting := "~ a reaction test ~"
	if h.username != "" {
		greeting = fmt.Sprintf("~ welcome, %s ~", truncate(h.username, config.MaxUsernameLength))
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.title.Render("R E F L E X   R O Y A L E"),
		s.dim.Render(greeting),
		"",
		s.text.Render("Hit every target before its ring runs out."),
		s.text.Render("Type the letter on it, or click it."),
		s.text.Render(fmt.Sprintf("Miss %d and it's over.", h.ctrl.Config().Session.MaxLives)),
		"",
		s.accent.Render(fmt.Sprintf("Best: %d", h.state.Best)),
	)
	box := s.box.Render(body)
	h.writeBlock(centerX, centerY-1, box)

	promptRow := centerY + lipgloss.Height(box)/2 + 1
	if h.blinkOn() {
		h.writeCentered(centerX, promptRow, s.good.Render(">>  Press SPACE to Start  <<"))
	}
	h.writeCentered(centerX, promptRow+2, s.dim.Render("Q  quit"))
}

// drawPlayingHUD draws the in-game HUD in the band above the field.
// Text fields use fixed-width formatting so values don't shift around.
func (h *Host) drawPlayingHUD(termWidth, centerX, centerY int) {
	s := h.styles
	cw := h.chunkWriter
	st := h.ctrl.State()

	wave := 1
	if every := h.ctrl.Config().Session.MilestoneEvery; every > 0 {
		wave = st.TargetsHit/every + 1
	}
	left := s.text.Render(fmt.Sprintf("Score: %-6d", st.Score)) + "  " +
		s.accent.Render(fmt.Sprintf("Combo: x%-4d", st.Combo)) + "  " +
		s.dim.Render(fmt.Sprintf("Wave: %-3d", wave))
	cw.WriteAt(2, 1, left)

	if object.ShouldRenderBlink(h.state.LifeLostBlink, config.HUDBlinkFrequency) {
		lives := s.bad.Render(strings.Repeat("♥", st.Lives)) + s.dim.Render(strings.Repeat("♡", max(st.MaxLives-st.Lives, 0)))
		cw.WriteAt(termWidth-lipgloss.Width(lives)-1, 1, lives)
	}

	best := s.dim.Render(fmt.Sprintf("Best: %d", h.state.Best))
	cw.WriteAt(termWidth-lipgloss.Width(best)-1, 2, best)

	if h.state.Countdown > 0 {
		h.writeCentered(centerX, centerY-2, s.text.Render("Get ready"))
		h.writeCentered(centerX, centerY, s.digit.Render(fmt.Sprintf("%d", h.state.Countdown)))
	}
}

// drawGameOverScreen draws the final score and restart prompt.
func (h *Host) drawGameOverScreen(centerX, centerY int) {
	s := h.styles
	res := h.state.Result

	lines := []string{
		s.title.Render("G A M E   O V E R"),
		"",
		s.text.Render(fmt.Sprintf("Score: %d", res.Score)),
		s.text.Render(fmt.Sprintf("Best combo: x%d", res.BestCombo)),
		s.text.Render(fmt.Sprintf("Targets hit: %d", res.TargetsHit)),
		s.dim.Render(fmt.Sprintf("Survived: %.1fs", res.Elapsed.Seconds())),
		"",
	}
	if res.NewBest {
		lines = append(lines, s.popup.Render("NEW BEST!"))
	} else {
		lines = append(lines, s.accent.Render(fmt.Sprintf("Best: %d", res.Best)))
	}
	box := s.box.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	h.writeBlock(centerX, centerY-1, box)

	promptRow := centerY + lipgloss.Height(box)/2 + 1
	if h.state.RestartDelay <= 0 && h.blinkOn() {
		h.writeCentered(centerX, promptRow, s.good.Render(">>  Press SPACE to Play Again  <<"))
	}
	h.writeCentered(centerX, promptRow+2, s.dim.Render("Q  quit"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (h *Host) drawInactivityScreen(centerX, centerY int) {
	s := h.styles
	h.writeCentered(centerX, centerY-2, s.bad.Render("INACTIVITY WARNING"))

	left := int(config.InactivityDisconnectUser - h.state.now.Sub(h.state.lastInput).Seconds())
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", max(left, 0))
	h.writeCentered(centerX, centerY, s.text.Render(msg))

	h.writeCentered(centerX, centerY+2, s.dim.Render("Press any key to continue"))
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
