package physics

import "github.com/jakecoffman/cp"

type BodyKind int

const (
	Dynamic BodyKind = iota
	Static
	Kinematic
)

type ShapeKind int

const (
	Circle ShapeKind = iota
	Box
	Segment
)

// Category is a collision category bit used for filtering and raycasts.
type Category uint

const (
	CategoryGround Category = 1 << iota
	CategoryPlayer
	CategoryProp
	CategoryObstacle
	CategorySensor

	// CategoryOpaque is what blocks the camera's line of sight.
	CategoryOpaque = CategoryGround | CategoryObstacle
	CategoryAll    = ^Category(0)
)

// BodyDef describes a body and its single collider. Shapes are positioned
// relative to Position: circles and boxes are centred on it, segments run
// from Position+A to Position+B.
type BodyDef struct {
	Kind     BodyKind
	Shape    ShapeKind
	Position cp.Vector
	Angle    float64

	Radius float64
	Width  float64
	Height float64
	A, B   cp.Vector

	Mass       float64
	Friction   float64
	Elasticity float64
	Sensor     bool
	Category   Category
	// Owner is an opaque tag reported back on contact events.
	Owner uint64
}

// BodyState is a read-only snapshot of a body.
type BodyState struct {
	Position        cp.Vector
	Angle           float64
	Velocity        cp.Vector
	AngularVelocity float64
	Mass            float64
	Kind            BodyKind
	Shape           ShapeKind
	Category        Category
	Sensor          bool
	Owner           uint64
}
