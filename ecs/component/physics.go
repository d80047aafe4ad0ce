package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/physics"
)

// Body links an entity to its rigid body. Shape dimensions are kept for
// drawing.
type Body struct {
	Handle physics.Handle
	Shape  physics.ShapeKind
	Radius float64
	Width  float64
	Height float64
	A, B   cp.Vector
}

var BodyComponent = NewComponent[Body]()
