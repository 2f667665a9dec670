// Package config holds the terminal host's fixed tuning values. Gameplay
// settings live in the top-level config package.
package config

import "time"

// Largest render area in cells. Bigger terminals get a centred, framed
// canvas.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
)

// Leaderboard
const (
	TopScoreCount     = 5
	MaxUsernameLength = 16
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Shutdown notice shown before auto-disconnect
	ShutdownWait           = 15 * time.Second
)

// Inactivity, in seconds without any key or mouse event.
const (
	InactivityWarnUser       = 90
	InactivityDisconnectUser = 120
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	PromptBlinkPeriod     = 0.6 // Seconds per on/off phase of blinking prompts
)
