package gamestate

import (
	"github.com/google/uuid"
	"github.com/milk9111/boneklod/score"
)

type ObjectiveKind string

const (
	ObjectiveReach   ObjectiveKind = "reach"
	ObjectiveCollect ObjectiveKind = "collect"
	ObjectiveSwitch  ObjectiveKind = "switch"
)

// Objective is one goal of a level. Reach and switch objectives complete
// when the trigger named by Target fires; collect objectives complete once
// Count bones have been absorbed.
type Objective struct {
	ID       string
	Label    string
	Kind     ObjectiveKind
	Target   string
	Count    int
	Progress int
	Done     bool
}

type FailReason int

const (
	FailNone FailReason = iota
	FailOutOfBounds
	FailTimeUp
	FailGaveUp
)

func (r FailReason) String() string {
	switch r {
	case FailOutOfBounds:
		return "out_of_bounds"
	case FailTimeUp:
		return "time_up"
	case FailGaveUp:
		return "given_up"
	default:
		return "none"
	}
}

// Hint is the message shown on the game over screen.
func (r FailReason) Hint() string {
	switch r {
	case FailOutOfBounds:
		return "The klod fell out of the world"
	case FailTimeUp:
		return score.HintTimeUp
	case FailGaveUp:
		return "You gave up"
	default:
		return ""
	}
}

type SessionParams struct {
	LevelID      string
	LevelName    string
	TimeLimit    float64
	RequiredMana float64
	Objectives   []Objective
	Script       *score.Script
}

// Session is the state of one attempt at a level.
type Session struct {
	ID           uuid.UUID
	LevelID      string
	LevelName    string
	Collected    int
	BoneMass     float64
	Elapsed      float64
	TimeLimit    float64
	RequiredMana float64
	Objectives   []Objective
	Powers       map[string]bool
	Fail         FailReason
	Result       *score.Result

	script *score.Script
}

func NewSession(p SessionParams) *Session {
	objectives := make([]Objective, len(p.Objectives))
	copy(objectives, p.Objectives)
	for i := range objectives {
		objectives[i].Progress = 0
		objectives[i].Done = false
	}
	return &Session{
		ID:           uuid.New(),
		LevelID:      p.LevelID,
		LevelName:    p.LevelName,
		TimeLimit:    p.TimeLimit,
		RequiredMana: p.RequiredMana,
		Objectives:   objectives,
		Powers:       make(map[string]bool),
		script:       p.Script,
	}
}

func (s *Session) TimeRemaining() float64 {
	if s.TimeLimit <= 0 {
		return 0
	}
	return max(s.TimeLimit-s.Elapsed, 0)
}

// Tick advances the session clock and fails the session once the time
// limit is reached. A zero limit means untimed.
func (s *Session) Tick(dt float64) {
	if s.Finished() {
		return
	}
	s.Elapsed += dt
	if s.TimeLimit > 0 && s.Elapsed >= s.TimeLimit {
		s.FailWith(FailTimeUp)
	}
}

// Collect records an absorbed bone and returns the objectives it completed.
func (s *Session) Collect(weight float64, power string) []Objective {
	if s.Finished() {
		return nil
	}
	s.Collected++
	s.BoneMass += weight
	if power != "" {
		s.Powers[power] = true
	}

	var done []Objective
	for i := range s.Objectives {
		o := &s.Objectives[i]
		if o.Kind != ObjectiveCollect || o.Done {
			continue
		}
		o.Progress++
		if o.Progress >= max(o.Count, 1) {
			o.Done = true
			done = append(done, *o)
		}
	}
	return done
}

// Trigger completes the reach and switch objectives targeting id.
func (s *Session) Trigger(id string) []Objective {
	if s.Finished() {
		return nil
	}
	var done []Objective
	for i := range s.Objectives {
		o := &s.Objectives[i]
		if o.Done || o.Target != id {
			continue
		}
		if o.Kind != ObjectiveReach && o.Kind != ObjectiveSwitch {
			continue
		}
		o.Progress = 1
		o.Done = true
		done = append(done, *o)
	}
	return done
}

func (s *Session) HasPower(power string) bool {
	return s.Powers[power]
}

// FailWith records the first fail reason; later reasons are ignored.
func (s *Session) FailWith(reason FailReason) {
	if s.Fail == FailNone && s.Result == nil {
		s.Fail = reason
	}
}

func (s *Session) Complete() bool {
	if len(s.Objectives) == 0 {
		return false
	}
	for _, o := range s.Objectives {
		if !o.Done {
			return false
		}
	}
	return true
}

func (s *Session) Finished() bool {
	return s.Result != nil
}

func (s *Session) Score() score.Score {
	return score.Score{
		BoneMass:      s.BoneMass,
		TimeRemaining: s.TimeRemaining(),
		RequiredMana:  s.RequiredMana,
	}
}

// Finish computes and stores the session result once.
func (s *Session) Finish() score.Result {
	if s.Result != nil {
		return *s.Result
	}
	res := score.Evaluate(s.script, s.Score(), s.Collected)
	if s.Fail != FailNone {
		res.Won = false
		res.Hint = s.Fail.Hint()
	}
	s.Result = &res
	return res
}
