package component

// Transform is the render-facing pose, copied from the physics body after
// every step. Units are world units with y up.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
