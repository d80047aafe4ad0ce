package input

import (
	"math"

	"github.com/jakecoffman/cp"
)

const DefaultDeadZone = 0.15

// edge turns a held level into a single true sample per press.
type edge struct {
	held bool
}

func (e *edge) update(held bool) bool {
	pressed := held && !e.held
	e.held = held
	return pressed
}

// Mapper converts Raw snapshots into Intents. It keeps only the previous
// button levels; Map has no other side effects.
type Mapper struct {
	deadZone        float64
	lookSensitivity float64

	jump, confirm, back, pause edge
}

func NewMapper(deadZone, lookSensitivity float64) *Mapper {
	if deadZone < 0 || deadZone >= 1 {
		deadZone = DefaultDeadZone
	}
	if lookSensitivity <= 0 {
		lookSensitivity = 1
	}
	return &Mapper{deadZone: deadZone, lookSensitivity: lookSensitivity}
}

func (m *Mapper) Map(raw Raw) Intent {
	if !raw.Connected {
		// Treat every button as still held so a press that spans the
		// disconnect does not fire on reconnect.
		m.jump.held, m.confirm.held, m.back.held, m.pause.held = true, true, true, true
		return Intent{}
	}

	move := ApplyDeadZone(cp.Vector{X: raw.StickX, Y: raw.StickY}, m.deadZone)
	if move == (cp.Vector{}) {
		move = digital(raw.Left, raw.Right, raw.Down, raw.Up)
	}

	return Intent{
		Move:           move,
		Look:           m.look(raw.LookX, raw.LookY),
		JumpPressed:    m.jump.update(raw.Jump),
		ConfirmPressed: m.confirm.update(raw.Confirm),
		BackPressed:    m.back.update(raw.Back),
		PausePressed:   m.pause.update(raw.Pause),
		RestartHeld:    raw.Restart,
	}
}

// look scales the raw look delta. A non-finite delta is dropped.
func (m *Mapper) look(x, y float64) cp.Vector {
	v := cp.Vector{X: x * m.lookSensitivity, Y: y * m.lookSensitivity}
	if !finite(v) {
		return cp.Vector{}
	}
	return v
}

// ApplyDeadZone zeroes vectors shorter than dz and rescales the rest so the
// output grows continuously from 0 at the dead-zone edge to 1 at full tilt.
func ApplyDeadZone(v cp.Vector, dz float64) cp.Vector {
	if !finite(v) {
		return cp.Vector{}
	}
	l := v.Length()
	if l <= dz || l == 0 {
		return cp.Vector{}
	}
	scaled := math.Min((l-dz)/(1-dz), 1)
	return v.Mult(scaled / l)
}

func digital(left, right, down, up bool) cp.Vector {
	var v cp.Vector
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	if down {
		v.Y--
	}
	if up {
		v.Y++
	}
	if l := v.Length(); l > 1 {
		v = v.Mult(1 / l)
	}
	return v
}

func finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
