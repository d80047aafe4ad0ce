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

// PickupSystem lets the klod absorb bones it rolls into, provided they are
// light enough for its weight and speed.
type PickupSystem struct {
	physics *physics.World
	session *gamestate.Session
	cues    *sfx.Queue
	log     *zap.Logger
}

func NewPickupSystem(pw *physics.World, session *gamestate.Session, cues *sfx.Queue, log *zap.Logger) *PickupSystem {
	return &PickupSystem{
		physics: pw,
		session: session,
		cues:    cues,
		log:     logger.OrNop(log).Named("pickup"),
	}
}

// CanAbsorb reports whether a klod of mass moving at speed can take in a
// bone of weight.
func CanAbsorb(t component.Player, speed, weight float64) bool {
	bonus := t.Tuning.MinSpeedBonus
	if t.Tuning.MaxSpeed > 0 {
		bonus = max(bonus, speed*t.Tuning.SpeedBonusScale/t.Tuning.MaxSpeed)
	}
	return weight <= bonus*t.Mass()*t.Tuning.AbsorbRatio
}

func (ps *PickupSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.physics == nil {
		return
	}
	playerEnt, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, playerEnt, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, playerEnt, component.BodyComponent.Kind())
	if !ok {
		return
	}

	eachContact(w, func(evt physics.ContactEvent) {
		if evt.Phase != physics.ContactBegin || evt.Sensor {
			return
		}
		_, owner, _, ok := evt.Involves(body.Handle)
		if !ok {
			return
		}
		boneEnt, ok := contactEntity(w, owner)
		if !ok {
			return
		}
		bone, ok := ecs.Get(w, boneEnt, component.BoneComponent.Kind())
		if !ok {
			return
		}
		st, ok := ps.physics.State(body.Handle)
		if !ok {
			return
		}
		if !CanAbsorb(*player, st.Velocity.Length(), bone.Weight) {
			return
		}
		ps.absorb(w, playerEnt, player, body, boneEnt, bone, st)
	})
}

func (ps *PickupSystem) absorb(w *ecs.World, playerEnt ecs.Entity, player *component.Player, body *component.Body, boneEnt ecs.Entity, bone *component.Bone, st physics.BodyState) {
	if boneBody, ok := ecs.Get(w, boneEnt, component.BodyComponent.Kind()); ok {
		ps.physics.Destroy(boneBody.Handle)
	}
	weight, power, id := bone.Weight, bone.Power, bone.ID
	ecs.DestroyEntity(w, boneEnt)

	player.Absorbed += weight
	ps.physics.SetMass(body.Handle, player.Mass())
	ps.cues.At(sfx.Pickup, st.Position.X, st.Position.Y)

	ps.log.Debug("absorbed bone",
		zap.String("bone", id),
		zap.Float64("weight", weight),
		zap.Float64("mass", player.Mass()),
		zap.Stringer("player", playerEnt))

	if ps.session == nil {
		return
	}
	done := ps.session.Collect(weight, power)
	if power != "" {
		ps.log.Info("power granted", zap.String("power", power))
	}
	for _, o := range done {
		ps.log.Info("objective complete", zap.String("objective", o.ID))
		ps.cues.At(sfx.Objective, st.Position.X, st.Position.Y)
	}
}
