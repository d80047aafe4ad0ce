package ui

import (
	"math"

	"github.com/milk9111/boneklod/input"
)

type Config struct {
	RepeatDelay    float64
	RepeatInterval float64
	// Threshold is how far the dominant axis must be pushed to count.
	Threshold float64
}

func DefaultConfig() Config {
	return Config{RepeatDelay: 0.4, RepeatInterval: 0.15, Threshold: 0.5}
}

// Navigator moves focus across a Screen from intents and activates
// elements.
type Navigator struct {
	cfg    Config
	screen *Screen
	focus  string

	held     Direction
	heldFor  float64
	next     float64
	released bool

	// OnMove is called after focus changed.
	OnMove func(from, to string)
}

func NewNavigator(cfg Config) *Navigator {
	d := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = d.Threshold
	}
	if cfg.RepeatDelay <= 0 {
		cfg.RepeatDelay = d.RepeatDelay
	}
	if cfg.RepeatInterval <= 0 {
		cfg.RepeatInterval = d.RepeatInterval
	}
	return &Navigator{cfg: cfg, released: true}
}

// SetScreen shows s with focus on its first enabled element. A direction
// still held from the previous screen is ignored until released.
func (n *Navigator) SetScreen(s *Screen) {
	n.screen = s
	n.focus = s.first()
	n.held = DirNone
	n.released = false
}

func (n *Navigator) Screen() *Screen { return n.screen }

func (n *Navigator) Focused() string { return n.focus }

// Discretize picks the dominant axis of v if it passes threshold.
func Discretize(v input.Intent, threshold float64) Direction {
	x, y := v.Move.X, v.Move.Y
	if math.Abs(x) < threshold && math.Abs(y) < threshold {
		return DirNone
	}
	if math.Abs(x) >= math.Abs(y) {
		if x > 0 {
			return DirRight
		}
		return DirLeft
	}
	if y > 0 {
		return DirUp
	}
	return DirDown
}

// Update applies one frame of intent. It returns the activated element's
// action, or the screen's back action when back was pressed.
func (n *Navigator) Update(intent input.Intent, dt float64) (Action, bool) {
	if n.screen == nil {
		return Action{}, false
	}

	dir := Discretize(intent, n.cfg.Threshold)
	switch {
	case dir == DirNone:
		n.held = DirNone
		n.released = true
	case !n.released:
	case dir != n.held:
		n.held = dir
		n.heldFor = 0
		n.next = n.cfg.RepeatDelay
		n.Move(dir)
	default:
		n.heldFor += dt
		if n.heldFor >= n.next {
			n.next += n.cfg.RepeatInterval
			n.Move(dir)
		}
	}

	if intent.ConfirmPressed || intent.JumpPressed {
		return n.Activate(n.focus)
	}
	if intent.BackPressed && n.screen.Back.Kind != ActionNone {
		return n.screen.Back, true
	}
	return Action{}, false
}

// Move shifts focus one step in dir, skipping disabled elements.
func (n *Navigator) Move(dir Direction) bool {
	cur, ok := n.screen.Element(n.focus)
	if !ok {
		return false
	}
	seen := map[string]bool{cur.ID: true}
	for {
		nextID, ok := cur.Neighbors[dir]
		if !ok || seen[nextID] {
			return false
		}
		seen[nextID] = true
		next, ok := n.screen.Element(nextID)
		if !ok {
			return false
		}
		if !next.Disabled {
			return n.Focus(next.ID)
		}
		cur = next
	}
}

// Focus moves focus to id, for pointer hover.
func (n *Navigator) Focus(id string) bool {
	e, ok := n.screen.Element(id)
	if !ok || e.Disabled || id == n.focus {
		return false
	}
	from := n.focus
	n.focus = id
	if n.OnMove != nil {
		n.OnMove(from, id)
	}
	return true
}

// Activate returns id's action, for pointer clicks and confirm.
func (n *Navigator) Activate(id string) (Action, bool) {
	e, ok := n.screen.Element(id)
	if !ok || e.Disabled || e.Action.Kind == ActionNone {
		return Action{}, false
	}
	n.focus = id
	return e.Action, true
}
