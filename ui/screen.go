package ui

type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionStart
	ActionSelectLevel
	ActionLevels
	ActionResume
	ActionRestart
	ActionNextLevel
	ActionMainMenu
	ActionRules
	ActionBack
	ActionQuit
)

// Action is what activating an element asks the game to do. Level is set
// for ActionSelectLevel.
type Action struct {
	Kind  ActionKind
	Level string
}

type Element struct {
	ID        string
	Label     string
	Action    Action
	Disabled  bool
	Neighbors map[Direction]string
}

type ScreenID string

// Screen is a set of focusable elements linked by direction.
type Screen struct {
	ID       ScreenID
	Title    string
	Body     []string
	Wrap     bool
	Elements []*Element
	// Back is the action for the back button; ActionNone ignores it.
	Back Action

	index map[string]*Element
}

func newScreen(id ScreenID, title string, wrap bool, elems []Element) *Screen {
	s := &Screen{ID: id, Title: title, Wrap: wrap, index: make(map[string]*Element, len(elems))}
	for i := range elems {
		e := elems[i]
		if e.Neighbors == nil {
			e.Neighbors = make(map[Direction]string)
		}
		s.Elements = append(s.Elements, &e)
		s.index[e.ID] = &e
	}
	return s
}

// VerticalScreen links elements top to bottom.
func VerticalScreen(id ScreenID, title string, wrap bool, elems ...Element) *Screen {
	s := newScreen(id, title, wrap, elems)
	s.link(DirUp, DirDown)
	return s
}

// HorizontalScreen links elements left to right.
func HorizontalScreen(id ScreenID, title string, wrap bool, elems ...Element) *Screen {
	s := newScreen(id, title, wrap, elems)
	s.link(DirLeft, DirRight)
	return s
}

func (s *Screen) link(prev, next Direction) {
	n := len(s.Elements)
	for i, e := range s.Elements {
		if i > 0 {
			e.Neighbors[prev] = s.Elements[i-1].ID
		}
		if i < n-1 {
			e.Neighbors[next] = s.Elements[i+1].ID
		}
	}
	if s.Wrap && n > 1 {
		s.Elements[0].Neighbors[prev] = s.Elements[n-1].ID
		s.Elements[n-1].Neighbors[next] = s.Elements[0].ID
	}
}

func (s *Screen) Element(id string) (*Element, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.index[id]
	return e, ok
}

// first returns the first enabled element id.
func (s *Screen) first() string {
	for _, e := range s.Elements {
		if !e.Disabled {
			return e.ID
		}
	}
	return ""
}
