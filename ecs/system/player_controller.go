package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/sfx"
	"go.uber.org/zap"
)

// PlayerControllerSystem runs the klod state machine and turns intent into
// impulses on the klod body.
type PlayerControllerSystem struct {
	physics *physics.World
	cues    *sfx.Queue
	dt      float64
	log     *zap.Logger
}

func NewPlayerControllerSystem(pw *physics.World, cues *sfx.Queue, dt float64, log *zap.Logger) *PlayerControllerSystem {
	return &PlayerControllerSystem{
		physics: pw,
		cues:    cues,
		dt:      dt,
		log:     logger.OrNop(log).Named("controller"),
	}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if p == nil || w == nil || p.physics == nil {
		return
	}
	ecs.ForEach4(w,
		component.PlayerComponent.Kind(),
		component.ControllerComponent.Kind(),
		component.BodyComponent.Kind(),
		component.InputComponent.Kind(),
		func(e ecs.Entity, player *component.Player, ctrl *component.Controller, body *component.Body, in *component.Input) {
			ctx := newControllerContext(p.physics, p.cues, p.dt, e, player, ctrl, body, in, p.log)
			if ctrl.State == nil {
				ctx.ChangeState(ControllerAirborne)
				applyPendingState(ctx)
			}
			ctrl.State.HandleIntent(ctx)
			applyPendingState(ctx)
			ctrl.State.Update(ctx)
			applyPendingState(ctx)

			limitSpin(p.physics, body.Handle, maxAngularSpeed(player))
		})
}

// newControllerContext wires a state context to one entity. The step index
// is the physics step about to run.
func newControllerContext(pw *physics.World, cues *sfx.Queue, dt float64, e ecs.Entity, player *component.Player, ctrl *component.Controller, body *component.Body, in *component.Input, log *zap.Logger) *component.ControllerContext {
	h := body.Handle
	state := func() physics.BodyState {
		st, _ := pw.State(h)
		return st
	}
	return &component.ControllerContext{
		Input:      in,
		Player:     player,
		Controller: ctrl,
		Step:       pw.Steps() + 1,
		DT:         dt,
		Velocity: func() cp.Vector {
			return state().Velocity
		},
		AngularVelocity: func() float64 {
			return state().AngularVelocity
		},
		ApplyImpulse: func(impulse cp.Vector) {
			pw.ApplyImpulse(h, impulse)
		},
		ApplyAngularImpulse: func(impulse float64) {
			pw.ApplyAngularImpulse(h, impulse)
		},
		ChangeState: func(next component.ControllerState) {
			ctrl.Pending = next
		},
		EmitCue: func(name string) {
			pos := state().Position
			cues.At(name, pos.X, pos.Y)
		},
		Log: func(msg string) {
			log.Debug(msg, zap.Stringer("entity", e), zap.String("state", ctrl.StateName()))
		},
	}
}

func applyPendingState(ctx *component.ControllerContext) {
	ctrl := ctx.Controller
	for i := 0; i < 4 && ctrl.Pending != nil; i++ {
		next := ctrl.Pending
		ctrl.Pending = nil
		if next == ctrl.State {
			continue
		}
		ctrl.State = next
		ctx.Log("enter")
		next.Enter(ctx)
	}
}

func limitSpin(pw *physics.World, h physics.Handle, limit float64) {
	st, ok := pw.State(h)
	if !ok || limit <= 0 {
		return
	}
	if math.Abs(st.AngularVelocity) > limit {
		pw.SetAngularVelocity(h, math.Copysign(limit, st.AngularVelocity))
	}
}
