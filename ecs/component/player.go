package component

import "github.com/milk9111/boneklod/prefabs"

// Player is the klod's tuning and growth.
type Player struct {
	Tuning   prefabs.ControllerSpec
	Radius   float64
	BaseMass float64
	// Absorbed is the total weight of absorbed bones.
	Absorbed float64
	// Facing is +1 when last moving right, -1 when moving left.
	Facing float64
}

// Mass is the klod weight used by absorption and movement.
func (p *Player) Mass() float64 {
	return p.BaseMass + p.Absorbed
}

var PlayerComponent = NewComponent[Player]()
