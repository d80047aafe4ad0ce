package system

import (
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/levels"
)

// RestartHoldTime is how long restart must be held to give up.
const RestartHoldTime = 1.0

// SessionClockSystem advances the session timer and fails the session when
// the klod leaves the level bounds or the player gives up.
type SessionClockSystem struct {
	session *gamestate.Session
	bounds  levels.Bounds
	dt      float64
	held    float64
}

func NewSessionClockSystem(session *gamestate.Session, bounds levels.Bounds, dt float64) *SessionClockSystem {
	return &SessionClockSystem{session: session, bounds: bounds, dt: dt}
}

// Held is how long restart has been held, for the HUD.
func (s *SessionClockSystem) Held() float64 {
	return s.held
}

func (s *SessionClockSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.session == nil {
		return
	}
	s.session.Tick(s.dt)

	playerEnt, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	if t, ok := ecs.Get(w, playerEnt, component.TransformComponent.Kind()); ok {
		if !s.bounds.Contains(t.X, t.Y) {
			s.session.FailWith(gamestate.FailOutOfBounds)
		}
	}
	if in, ok := ecs.Get(w, playerEnt, component.InputComponent.Kind()); ok && in.Intent.RestartHeld {
		s.held += s.dt
		if s.held >= RestartHoldTime {
			s.session.FailWith(gamestate.FailGaveUp)
		}
	} else {
		s.held = 0
	}
}
