package gamestate

import (
	"errors"
	"fmt"

	"github.com/milk9111/boneklod/logger"
	"go.uber.org/zap"
)

var ErrIllegalTransition = errors.New("gamestate: illegal transition")

type AppState int

const (
	MainMenu AppState = iota
	Loading
	Playing
	Paused
	LevelComplete
	GameOver
)

func (s AppState) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case LevelComplete:
		return "level_complete"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("app_state(%d)", int(s))
	}
}

// Group is a set of systems gated together by the app state.
type Group int

const (
	GroupGameplay Group = iota
	GroupCamera
	GroupUI
	GroupLoader
)

type TransitionFunc func(from, to AppState)

// Machine owns the app state. The state only changes through its methods.
type Machine struct {
	state     AppState
	level     string
	err       error
	session   *Session
	listeners []TransitionFunc
	log       *zap.Logger
}

func NewMachine(log *zap.Logger) *Machine {
	return &Machine{state: MainMenu, log: logger.OrNop(log).Named("gamestate")}
}

func (m *Machine) State() AppState { return m.state }

// Session is the active session, nil outside a level.
func (m *Machine) Session() *Session { return m.session }

// PendingLevel is the level requested by the last StartLevel.
func (m *Machine) PendingLevel() string { return m.level }

// Err is the last loading failure, shown on the main menu.
func (m *Machine) Err() error { return m.err }

func (m *Machine) OnTransition(fn TransitionFunc) {
	if fn != nil {
		m.listeners = append(m.listeners, fn)
	}
}

func (m *Machine) Runs(g Group) bool {
	switch g {
	case GroupGameplay, GroupCamera:
		return m.state == Playing
	case GroupUI:
		switch m.state {
		case MainMenu, Paused, LevelComplete, GameOver:
			return true
		}
		return false
	case GroupLoader:
		return m.state == Loading
	}
	return false
}

func (m *Machine) StartLevel(id string) error {
	if err := m.require("start_level", MainMenu, Paused, LevelComplete, GameOver); err != nil {
		return err
	}
	m.level = id
	m.err = nil
	m.session = nil
	m.set(Loading)
	return nil
}

func (m *Machine) FinishLoading(s *Session) error {
	if err := m.require("finish_loading", Loading); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: finish_loading without a session", ErrIllegalTransition)
	}
	m.session = s
	m.set(Playing)
	return nil
}

func (m *Machine) FailLoading(cause error) error {
	if err := m.require("fail_loading", Loading); err != nil {
		return err
	}
	m.err = cause
	m.session = nil
	m.set(MainMenu)
	return nil
}

func (m *Machine) Pause() error {
	if err := m.require("pause", Playing); err != nil {
		return err
	}
	m.set(Paused)
	return nil
}

func (m *Machine) Resume() error {
	if err := m.require("resume", Paused); err != nil {
		return err
	}
	m.set(Playing)
	return nil
}

func (m *Machine) ReturnToMenu() error {
	if err := m.require("return_to_menu", Paused, LevelComplete, GameOver); err != nil {
		return err
	}
	m.session = nil
	m.set(MainMenu)
	return nil
}

// Evaluate ends a playing session that has failed or completed every
// objective. A failure wins over completion within the same step.
func (m *Machine) Evaluate() bool {
	if m.state != Playing || m.session == nil {
		return false
	}
	switch {
	case m.session.Fail != FailNone:
		res := m.session.Finish()
		m.log.Info("session failed",
			zap.Stringer("session", m.session.ID),
			zap.Stringer("reason", m.session.Fail),
			zap.Float64("elapsed", m.session.Elapsed),
			zap.Float64("mana", res.Mana))
		m.set(GameOver)
		return true
	case m.session.Complete():
		res := m.session.Finish()
		m.log.Info("session complete",
			zap.Stringer("session", m.session.ID),
			zap.Bool("won", res.Won),
			zap.Float64("mana", res.Mana),
			zap.Int("collected", res.Collected))
		m.set(LevelComplete)
		return true
	}
	return false
}

func (m *Machine) require(op string, from ...AppState) error {
	for _, s := range from {
		if m.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, op, m.state)
}

func (m *Machine) set(to AppState) {
	from := m.state
	m.state = to
	m.log.Debug("transition", zap.Stringer("from", from), zap.Stringer("to", to))
	for _, fn := range m.listeners {
		fn(from, to)
	}
}
