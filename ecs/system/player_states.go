package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/sfx"
)

// Controller state singletons (avoid allocations on transitions).
var (
	ControllerGrounded component.ControllerState = &groundedState{}
	ControllerAirborne component.ControllerState = &airborneState{}
	ControllerStunned  component.ControllerState = &stunnedState{}
)

type groundedState struct{}

type airborneState struct{}

type stunnedState struct{}

func (groundedState) Name() string { return "grounded" }
func (groundedState) Enter(ctx *component.ControllerContext) {
	ctx.Controller.AirJumps = 0
}
func (groundedState) HandleIntent(ctx *component.ControllerContext) {
	if ctx.Input == nil || !ctx.Input.Intent.JumpPressed {
		return
	}
	if jump(ctx, false) {
		ctx.ChangeState(ControllerAirborne)
	}
}
func (groundedState) Update(ctx *component.ControllerContext) {
	move(ctx, 1)
}

func (airborneState) Name() string                           { return "airborne" }
func (airborneState) Enter(ctx *component.ControllerContext) {}
func (airborneState) HandleIntent(ctx *component.ControllerContext) {
	if ctx.Input == nil || !ctx.Input.Intent.JumpPressed {
		return
	}
	if ctx.Player.Tuning.DoubleJump && ctx.Controller.AirJumps < 1 {
		if jump(ctx, true) {
			ctx.Controller.AirJumps++
		}
	}
}
func (airborneState) Update(ctx *component.ControllerContext) {
	move(ctx, ctx.Player.Tuning.AirControl)
}

func (stunnedState) Name() string { return "stunned" }
func (stunnedState) Enter(ctx *component.ControllerContext) {
	ctx.Controller.StunTimer = ctx.Player.Tuning.StunDuration
}
func (stunnedState) HandleIntent(ctx *component.ControllerContext) {}
func (stunnedState) Update(ctx *component.ControllerContext) {
	ctx.Controller.StunTimer -= ctx.DT
	if ctx.Controller.StunTimer > 0 {
		return
	}
	ctx.Controller.StunTimer = 0
	if ctx.Controller.Grounded() {
		ctx.ChangeState(ControllerGrounded)
	} else {
		ctx.ChangeState(ControllerAirborne)
	}
}

// jump applies at most one impulse per physics step. A ground jump adds
// JumpSpeed to the vertical velocity; an air jump sets it.
func jump(ctx *component.ControllerContext, air bool) bool {
	ctrl := ctx.Controller
	if ctrl.Jumped && ctrl.LastJumpStep == ctx.Step {
		return false
	}
	mass := ctx.Player.Mass()
	dv := ctx.Player.Tuning.JumpSpeed
	if air {
		dv -= ctx.Velocity().Y
		if dv <= 0 {
			return false
		}
	}
	ctx.ApplyImpulse(cp.Vector{X: 0, Y: dv * mass})
	ctrl.Jumped = true
	ctrl.LastJumpStep = ctx.Step
	ctx.EmitCue(sfx.Jump)
	return true
}

// move turns horizontal intent into a linear impulse and a rolling angular
// impulse. Input alone never pushes |vx| past MaxSpeed.
func move(ctx *component.ControllerContext, factor float64) {
	if ctx.Input == nil || factor <= 0 {
		return
	}
	x := ctx.Input.Intent.Move.X
	if x == 0 {
		return
	}
	p := ctx.Player
	p.Facing = common.Sign(x)

	mass := p.Mass()
	force := (p.Tuning.MoveForce + p.Absorbed*p.Tuning.WeightForce) * factor
	dv := force * x * ctx.DT / mass

	limit := p.Tuning.MaxSpeed
	vx := ctx.Velocity().X
	switch {
	case dv > 0 && vx+dv > limit:
		dv = max(limit-vx, 0)
	case dv < 0 && vx+dv < -limit:
		dv = min(-limit-vx, 0)
	}
	if dv != 0 {
		ctx.ApplyImpulse(cp.Vector{X: dv * mass})
	}

	// Rolling right is clockwise, i.e. negative angular velocity.
	spin := -x * p.Tuning.RollTorque * factor * ctx.DT * mass
	capW := maxAngularSpeed(p)
	w := ctx.AngularVelocity()
	if (spin < 0 && w > -capW) || (spin > 0 && w < capW) {
		ctx.ApplyAngularImpulse(spin)
	}
}

func maxAngularSpeed(p *component.Player) float64 {
	if p.Radius <= 0 {
		return p.Tuning.MaxSpeed
	}
	return p.Tuning.MaxSpeed / p.Radius
}
