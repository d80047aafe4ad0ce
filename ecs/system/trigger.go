package system

import (
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/sfx"
	"go.uber.org/zap"
)

// TriggerSystem reacts to the klod entering sensor areas.
type TriggerSystem struct {
	session *gamestate.Session
	cues    *sfx.Queue
	log     *zap.Logger
}

func NewTriggerSystem(session *gamestate.Session, cues *sfx.Queue, log *zap.Logger) *TriggerSystem {
	return &TriggerSystem{
		session: session,
		cues:    cues,
		log:     logger.OrNop(log).Named("trigger"),
	}
}

func (ts *TriggerSystem) Update(w *ecs.World) {
	if ts == nil || w == nil || ts.session == nil {
		return
	}
	playerEnt, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, playerEnt, component.BodyComponent.Kind())
	if !ok {
		return
	}
	transform, _ := ecs.Get(w, playerEnt, component.TransformComponent.Kind())

	eachContact(w, func(evt physics.ContactEvent) {
		if evt.Phase != physics.ContactBegin || !evt.Sensor {
			return
		}
		_, owner, _, ok := evt.Involves(body.Handle)
		if !ok {
			return
		}
		e, ok := contactEntity(w, owner)
		if !ok {
			return
		}
		trigger, ok := ecs.Get(w, e, component.TriggerComponent.Kind())
		if !ok {
			return
		}

		switch trigger.Kind {
		case component.TriggerKill:
			ts.log.Info("kill trigger", zap.String("trigger", trigger.ID))
			ts.session.FailWith(gamestate.FailOutOfBounds)
		case component.TriggerFinish, component.TriggerSwitch:
			if trigger.Fired {
				return
			}
			trigger.Fired = true
			for _, o := range ts.session.Trigger(trigger.ID) {
				ts.log.Info("objective complete", zap.String("objective", o.ID), zap.String("trigger", trigger.ID))
				if transform != nil {
					ts.cues.At(sfx.Objective, transform.X, transform.Y)
				}
			}
		}
	})
}
