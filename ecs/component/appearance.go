package component

import "image/color"

type Layer int

const (
	LayerGeometry Layer = iota
	LayerTrigger
	LayerProp
	LayerPlayer
)

// Appearance is how the renderer draws an entity's shape.
type Appearance struct {
	Color  color.RGBA
	Layer  Layer
	Hidden bool
}

var AppearanceComponent = NewComponent[Appearance]()
