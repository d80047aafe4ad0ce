package input

import "github.com/jakecoffman/cp"

// Raw is one frame's device snapshot. Digital directions and buttons are
// "held" levels; analog axes are unfiltered with y pointing up.
type Raw struct {
	// Connected is false when no device can currently deliver input, for
	// example when the window lost focus and no gamepad is attached.
	Connected bool

	Left, Right, Up, Down bool
	StickX, StickY        float64
	LookX, LookY          float64

	Jump    bool
	Confirm bool
	Back    bool
	Pause   bool
	Restart bool
}

// Intent is the device-independent input for one sample period.
type Intent struct {
	Move cp.Vector
	Look cp.Vector

	JumpPressed    bool
	ConfirmPressed bool
	BackPressed    bool
	PausePressed   bool
	RestartHeld    bool
}

func (i Intent) IsZero() bool {
	return i == Intent{}
}
