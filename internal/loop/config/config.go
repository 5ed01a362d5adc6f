// Package config centralizes the terminal host's tunable parameters.
// Session tuning (curve, lives, field) lives in internal/tuning.
package config

import "time"

// Max render resolution in terminal cells. Larger terminals get a centred
// render area with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// MaxUsernameLength is the maximum display length for player usernames.
const MaxUsernameLength = 16

// Labels is the key alphabet for targets, assigned by id. q is reserved
// for quitting.
const Labels = "asdfjklghwertyuiopzxcvbnm"

// Hit effects
const (
	BurstParticles = 14
	BurstSpeed     = 220.0 // Logical units per second
	BurstLifetime  = 0.45  // Seconds
	RingGrowth     = 1.8   // Final radius as a multiple of the target radius
	RingSeconds    = 0.35
	PopupRise      = 60.0 // Logical units per second
	PopupSeconds   = 0.8
)

// Miss and milestone effects
const (
	MissColor         = "#ff3b3b"
	MissRingSeconds   = 0.5
	BannerSeconds     = 1.6
	LifeLostBlinkSecs = 1.2
	HUDBlinkFrequency = 8.0 // Hz
)

// RestartDelaySeconds keeps a late keypress from skipping the game over
// screen.
const RestartDelaySeconds = 1.0

// Minimum combo for the "xN" popup next to "+1".
const ComboPopupMin = 3
