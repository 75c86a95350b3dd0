package loop

import "time"

// Max render resolution. Larger terminals get a centered canvas with a
// border, which bounds the bytes a full redraw sends over SSH.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
)

// Inactivity, for hosts that set Options.DisconnectIdle
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
