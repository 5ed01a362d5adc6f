package loop

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/reflex/internal/loop/config"
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/session"
)

// present turns session events into screen effects. It only touches host
// state; game over handling that needs the controller is deferred until
// Tick returns.
func (h *Host) present(ev session.Event) {
	switch ev := ev.(type) {
	case session.Countdown:
		h.state.Countdown = ev.Remaining

	case session.Started:
		h.state.Countdown = 0
		h.banner("GO!", h.styles.good)

	case session.Spawned:
		h.radii[ev.ID] = ev.Radius

	case session.Hit:
		r := h.radii[ev.ID]
		delete(h.radii, ev.ID)

		object.SpawnBurst(ev.X, ev.Y, config.BurstParticles, config.BurstSpeed, config.BurstLifetime, ev.Color, &h.scene)
		h.scene.Spawn(object.NewRing(ev.X, ev.Y, r, r*config.RingGrowth, config.RingSeconds, ev.Color))

		text := "+1"
		if ev.Combo >= config.ComboPopupMin {
			text = fmt.Sprintf("+1 x%d", ev.Combo)
		}
		h.scene.Spawn(object.NewPopup(ev.X, ev.Y-r, text, h.styles.popup, config.PopupRise, config.PopupSeconds))

	case session.Missed:
		r := h.radii[ev.ID]
		delete(h.radii, ev.ID)
		h.scene.Spawn(object.NewRing(ev.X, ev.Y, r*0.5, r*1.5, config.MissRingSeconds, config.MissColor))

	case session.LifeLost:
		h.state.LifeLostBlink = config.LifeLostBlinkSecs

	case session.Milestone:
		// Wave counts completed milestones; the HUD numbers waves from 1.
		h.banner(fmt.Sprintf("WAVE %d", ev.Wave+1), h.styles.accent)

	case session.GameOver:
		clear(h.radii)
		h.pendingEnd = &ev
	}
}

// banner shows a short message in the middle of the field.
func (h *Host) banner(text string, style lipgloss.Style) {
	f := h.field
	x := f.Width / 2
	y := f.HUDHeight + (f.Height-f.HUDHeight)/2
	h.scene.Spawn(object.NewPopup(x, y, text, style.Bold(true), config.PopupRise/3, config.BannerSeconds))
}
