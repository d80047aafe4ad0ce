// Package sfx carries fire-and-forget sound requests from the simulation to
// the audio player.
package sfx

import "math"

const (
	Jump      = "jump"
	Impact    = "impact"
	Pickup    = "pickup"
	Objective = "objective"
	Break     = "break"
	Complete  = "complete"
	Fail      = "fail"
	UIMove    = "ui_move"
	UISelect  = "ui_select"
)

// Cue asks for a named sound. Positional cues carry world coordinates;
// UI cues set Global and ignore them.
type Cue struct {
	Name   string
	X, Y   float64
	Volume float64
	Global bool
}

// Queue buffers cues until the audio side drains them. A nil Queue drops
// everything.
type Queue struct {
	cues  []Cue
	limit int
}

// DefaultLimit bounds how many cues a queue keeps between drains.
const DefaultLimit = 64

func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Queue{limit: limit}
}

func (q *Queue) Emit(c Cue) {
	if q == nil || c.Name == "" {
		return
	}
	if c.Volume <= 0 {
		c.Volume = 1
	}
	if len(q.cues) >= q.limit {
		return
	}
	q.cues = append(q.cues, c)
}

func (q *Queue) At(name string, x, y float64) {
	q.Emit(Cue{Name: name, X: x, Y: y})
}

func (q *Queue) UI(name string) {
	q.Emit(Cue{Name: name, Global: true})
}

// Drain returns the buffered cues and empties the queue.
func (q *Queue) Drain() []Cue {
	if q == nil || len(q.cues) == 0 {
		return nil
	}
	out := q.cues
	q.cues = nil
	return out
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.cues)
}

// Gain is the cue's volume heard by a listener at lx,ly. Positional cues
// fade linearly to silence at falloff world units; falloff <= 0 disables
// the fade.
func Gain(c Cue, lx, ly, falloff float64) float64 {
	if c.Global || falloff <= 0 {
		return c.Volume
	}
	d := math.Hypot(c.X-lx, c.Y-ly)
	return c.Volume * max(0, 1-d/falloff)
}
