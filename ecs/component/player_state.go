package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/physics"
)

// ControllerState is one state of the klod controller. States are stateless
// singletons; per-entity data lives in Controller.
type ControllerState interface {
	Name() string
	Enter(ctx *ControllerContext)
	HandleIntent(ctx *ControllerContext)
	Update(ctx *ControllerContext)
}

// ControllerContext gives a state access to the entity and its body
// through callbacks, keeping states free of ECS and physics lookups.
type ControllerContext struct {
	Input      *Input
	Player     *Player
	Controller *Controller
	Step       uint64
	DT         float64

	Velocity            func() cp.Vector
	AngularVelocity     func() float64
	ApplyImpulse        func(impulse cp.Vector)
	ApplyAngularImpulse func(impulse float64)
	ChangeState         func(state ControllerState)
	EmitCue             func(name string)
	Log                 func(msg string)
}

// Controller is the per-entity controller state.
type Controller struct {
	State   ControllerState
	Pending ControllerState

	// Ground holds the bodies currently supporting the klod with the
	// contact normal pointing from them towards the klod.
	Ground map[physics.Handle]cp.Vector
	// Touching counts every non-sensor contact, used to end a stun.
	Touching map[physics.Handle]struct{}

	StunTimer float64
	// AirJumps counts jumps since the klod last touched the ground.
	AirJumps     int
	LastJumpStep uint64
	// Jumped is set once any jump happened; LastJumpStep is only
	// meaningful after that.
	Jumped bool
}

func NewController() *Controller {
	return &Controller{
		Ground:   make(map[physics.Handle]cp.Vector),
		Touching: make(map[physics.Handle]struct{}),
	}
}

func (c *Controller) Grounded() bool {
	return len(c.Ground) > 0
}

func (c *Controller) StateName() string {
	if c == nil || c.State == nil {
		return ""
	}
	return c.State.Name()
}

var ControllerComponent = NewComponent[Controller]()
