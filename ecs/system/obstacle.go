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

// ObstacleSystem breaks obstacles touched by a klod holding a required
// power.
type ObstacleSystem struct {
	physics *physics.World
	session *gamestate.Session
	cues    *sfx.Queue
	log     *zap.Logger
}

func NewObstacleSystem(pw *physics.World, session *gamestate.Session, cues *sfx.Queue, log *zap.Logger) *ObstacleSystem {
	return &ObstacleSystem{
		physics: pw,
		session: session,
		cues:    cues,
		log:     logger.OrNop(log).Named("obstacle"),
	}
}

func (o *ObstacleSystem) Update(w *ecs.World) {
	if o == nil || w == nil || o.physics == nil || o.session == nil {
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

	eachContact(w, func(evt physics.ContactEvent) {
		if evt.Phase != physics.ContactBegin {
			return
		}
		other, owner, _, ok := evt.Involves(body.Handle)
		if !ok {
			return
		}
		e, ok := contactEntity(w, owner)
		if !ok {
			return
		}
		obstacle, ok := ecs.Get(w, e, component.ObstacleComponent.Kind())
		if !ok || obstacle.Broken || !o.unlocked(obstacle) {
			return
		}

		st, _ := o.physics.State(other)
		obstacle.Broken = true
		o.physics.Destroy(other)
		ecs.DestroyEntity(w, e)
		o.cues.At(sfx.Break, st.Position.X, st.Position.Y)
		o.log.Info("obstacle broken", zap.String("obstacle", obstacle.ID))
	})
}

func (o *ObstacleSystem) unlocked(obstacle *component.Obstacle) bool {
	for _, power := range obstacle.Requires {
		if o.session.HasPower(power) {
			return true
		}
	}
	return false
}
