package levels

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLevel = errors.New("levels: unknown level")
	ErrInvalidLevel = errors.New("levels: invalid level")
)

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Bounds struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= b.Min.X && x <= b.Max.X && y >= b.Min.Y && y <= b.Max.Y
}

type GeometryKind string

const (
	GeometryBox     GeometryKind = "box"
	GeometrySegment GeometryKind = "segment"
)

// Geometry is static level collision. Boxes are centred on X,Y; segments
// run from A to B with thickness Radius.
type Geometry struct {
	Kind     GeometryKind `yaml:"kind"`
	X        float64      `yaml:"x"`
	Y        float64      `yaml:"y"`
	W        float64      `yaml:"w"`
	H        float64      `yaml:"h"`
	Angle    float64      `yaml:"angle"`
	A        Vec          `yaml:"a"`
	B        Vec          `yaml:"b"`
	Radius   float64      `yaml:"radius"`
	Friction float64      `yaml:"friction"`
	Color    string       `yaml:"color"`
}

type Bone struct {
	ID     string  `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Weight float64 `yaml:"weight"`
	// Power is granted to the klod when this bone is absorbed.
	Power string `yaml:"power"`
}

// Obstacle is a solid box that breaks when a klod holding any of Requires
// runs into it.
type Obstacle struct {
	ID       string   `yaml:"id"`
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	W        float64  `yaml:"w"`
	H        float64  `yaml:"h"`
	Requires []string `yaml:"requires"`
}

type TriggerKind string

const (
	TriggerFinish TriggerKind = "finish"
	TriggerSwitch TriggerKind = "switch"
	TriggerKill   TriggerKind = "kill"
)

type Trigger struct {
	ID   string      `yaml:"id"`
	Kind TriggerKind `yaml:"kind"`
	X    float64     `yaml:"x"`
	Y    float64     `yaml:"y"`
	W    float64     `yaml:"w"`
	H    float64     `yaml:"h"`
}

type Objective struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Count  int    `yaml:"count"`
}

// Descriptor is a level as stored in levels/*.yaml. Coordinates are world
// units with y pointing up.
type Descriptor struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Order        int     `yaml:"order"`
	Next         string  `yaml:"next"`
	TimeLimit    float64 `yaml:"time_limit"`
	RequiredMana float64 `yaml:"required_mana"`
	// ScoreScript is optional tengo source replacing the default mana rule.
	ScoreScript string `yaml:"score_script"`

	Spawn      Vec         `yaml:"spawn"`
	Bounds     Bounds      `yaml:"bounds"`
	Geometry   []Geometry  `yaml:"geometry"`
	Bones      []Bone      `yaml:"bones"`
	Obstacles  []Obstacle  `yaml:"obstacles"`
	Triggers   []Trigger   `yaml:"triggers"`
	Objectives []Objective `yaml:"objectives"`
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate reports every problem with the level at once. Each error wraps
// ErrInvalidLevel.
func (d *Descriptor) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidLevel, d.ID, fmt.Sprintf(format, args...)))
	}

	if d.ID == "" {
		fail("id is required")
	}
	if d.TimeLimit < 0 || !finite(d.TimeLimit) {
		fail("time_limit %.2f must be a non-negative number", d.TimeLimit)
	}
	if d.RequiredMana < 0 || !finite(d.RequiredMana) {
		fail("required_mana %.2f must be a non-negative number", d.RequiredMana)
	}
	if d.Bounds.Min.X >= d.Bounds.Max.X || d.Bounds.Min.Y >= d.Bounds.Max.Y {
		fail("bounds min must be below max")
	} else if !d.Bounds.Contains(d.Spawn.X, d.Spawn.Y) {
		fail("spawn (%.2f,%.2f) outside bounds", d.Spawn.X, d.Spawn.Y)
	}
	if len(d.Geometry) == 0 {
		fail("at least one geometry piece is required")
	}
	for i, g := range d.Geometry {
		switch g.Kind {
		case GeometryBox:
			if g.W <= 0 || g.H <= 0 {
				fail("geometry[%d] box needs positive w and h", i)
			}
		case GeometrySegment:
			if g.A == g.B {
				fail("geometry[%d] segment has zero length", i)
			}
		default:
			fail("geometry[%d] unknown kind %q", i, g.Kind)
		}
	}

	ids := make(map[string]string)
	claim := func(kind, id string) {
		if id == "" {
			fail("%s without id", kind)
			return
		}
		if prev, ok := ids[id]; ok {
			fail("%s id %q already used by a %s", kind, id, prev)
			return
		}
		ids[id] = kind
	}
	for _, b := range d.Bones {
		claim("bone", b.ID)
		if b.Weight <= 0 || b.Radius <= 0 {
			fail("bone %q needs positive weight and radius", b.ID)
		}
	}
	for _, o := range d.Obstacles {
		claim("obstacle", o.ID)
		if o.W <= 0 || o.H <= 0 {
			fail("obstacle %q needs positive w and h", o.ID)
		}
		if len(o.Requires) == 0 {
			fail("obstacle %q requires no power and can never break", o.ID)
		}
	}
	triggers := make(map[string]TriggerKind)
	for _, t := range d.Triggers {
		claim("trigger", t.ID)
		triggers[t.ID] = t.Kind
		switch t.Kind {
		case TriggerFinish, TriggerSwitch, TriggerKill:
		default:
			fail("trigger %q unknown kind %q", t.ID, t.Kind)
		}
		if t.W <= 0 || t.H <= 0 {
			fail("trigger %q needs positive w and h", t.ID)
		}
	}

	if len(d.Objectives) == 0 {
		fail("at least one objective is required")
	}
	for _, o := range d.Objectives {
		switch o.Kind {
		case "reach", "switch":
			want := TriggerFinish
			if o.Kind == "switch" {
				want = TriggerSwitch
			}
			if kind, ok := triggers[o.Target]; !ok || kind != want {
				fail("objective %q targets %q which is not a %s trigger", o.ID, o.Target, want)
			}
		case "collect":
			if o.Count <= 0 || o.Count > len(d.Bones) {
				fail("objective %q collect count %d outside [1,%d]", o.ID, o.Count, len(d.Bones))
			}
		default:
			fail("objective %q unknown kind %q", o.ID, o.Kind)
		}
	}
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
