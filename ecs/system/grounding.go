package system

import (
	"math"

	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/sfx"
	"go.uber.org/zap"
)

// takeoffSteps is how long after a jump a rising klod ignores ground
// contacts that have not separated yet.
const takeoffSteps = 6

// GroundingSystem tracks the klod's supporting contacts, starts stuns on
// hard impacts and moves the controller between grounded and airborne.
type GroundingSystem struct {
	physics *physics.World
	cues    *sfx.Queue
	dt      float64
	log     *zap.Logger
}

func NewGroundingSystem(pw *physics.World, cues *sfx.Queue, dt float64, log *zap.Logger) *GroundingSystem {
	return &GroundingSystem{
		physics: pw,
		cues:    cues,
		dt:      dt,
		log:     logger.OrNop(log).Named("grounding"),
	}
}

func (g *GroundingSystem) Update(w *ecs.World) {
	if g == nil || w == nil || g.physics == nil {
		return
	}
	ecs.ForEach4(w,
		component.PlayerComponent.Kind(),
		component.ControllerComponent.Kind(),
		component.BodyComponent.Kind(),
		component.InputComponent.Kind(),
		func(e ecs.Entity, player *component.Player, ctrl *component.Controller, body *component.Body, in *component.Input) {
			ctx := newControllerContext(g.physics, g.cues, g.dt, e, player, ctrl, body, in, g.log)
			g.consume(w, ctx, body.Handle)
			// A stun from this step's impacts takes effect before landing does.
			applyPendingState(ctx)

			for h := range ctrl.Ground {
				if !g.physics.Alive(h) {
					delete(ctrl.Ground, h)
				}
			}
			for h := range ctrl.Touching {
				if !g.physics.Alive(h) {
					delete(ctrl.Touching, h)
				}
			}

			switch ctrl.State {
			case ControllerGrounded:
				if !ctrl.Grounded() {
					ctx.ChangeState(ControllerAirborne)
				}
			case ControllerAirborne:
				if ctrl.Grounded() && !g.takingOff(ctx) {
					ctx.ChangeState(ControllerGrounded)
				}
			}
			applyPendingState(ctx)
		})
}

func (g *GroundingSystem) consume(w *ecs.World, ctx *component.ControllerContext, self physics.Handle) {
	ctrl := ctx.Controller
	tuning := ctx.Player.Tuning
	minUp := math.Cos(tuning.GroundAngle * math.Pi / 180)

	eachContact(w, func(evt physics.ContactEvent) {
		if evt.Sensor {
			return
		}
		other, _, normal, ok := evt.Involves(self)
		if !ok {
			return
		}
		if evt.Phase == physics.ContactEnd {
			delete(ctrl.Ground, other)
			delete(ctrl.Touching, other)
			return
		}

		ctrl.Touching[other] = struct{}{}
		if normal.Y >= minUp {
			ctrl.Ground[other] = normal
		}

		switch {
		case tuning.StunImpulse > 0 && evt.Impulse > tuning.StunImpulse:
			if ctrl.State != ControllerStunned {
				g.log.Debug("stunned", zap.Float64("impulse", evt.Impulse), zap.Stringer("by", other))
				ctx.ChangeState(ControllerStunned)
			}
			ctx.EmitCue(sfx.Impact)
		case evt.Impulse > tuning.StunImpulse/4:
			ctx.EmitCue(sfx.Impact)
		}
	})
}

func (g *GroundingSystem) takingOff(ctx *component.ControllerContext) bool {
	ctrl := ctx.Controller
	if !ctrl.Jumped || g.physics.Steps()-ctrl.LastJumpStep >= takeoffSteps {
		return false
	}
	return ctx.Velocity().Y > 0
}
