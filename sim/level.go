package sim

import (
	"fmt"

	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/entity"
	"github.com/milk9111/boneklod/ecs/system"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/score"
	"go.uber.org/zap"
)

// level is one loaded level: its ECS world, physics world and systems.
type level struct {
	desc      *levels.Descriptor
	world     *ecs.World
	physics   *physics.World
	scheduler *ecs.Scheduler
	inputs    *system.InputSystem
	clock     *system.SessionClockSystem
	player    ecs.Entity
	session   *gamestate.Session
}

func (s *Simulation) buildLevel(id string) (*level, error) {
	desc, err := s.source.Load(id)
	if err != nil {
		return nil, err
	}

	var script *score.Script
	if desc.ScoreScript != "" {
		script, err = score.Compile(desc.ID, desc.ScoreScript, s.log)
		if err != nil {
			return nil, fmt.Errorf("sim: load %s: %w: %w", id, levels.ErrInvalidLevel, err)
		}
	}

	pc := s.cfg.Physics
	pw := physics.New(physics.Config{
		Gravity:            pc.Gravity,
		Iterations:         pc.Iterations,
		MaxVelocity:        pc.MaxVelocity,
		MaxAngularVelocity: pc.MaxAngularVelocity,
	}, s.log)
	w := ecs.NewWorld()

	playerEnt, err := entity.LoadLevelToWorld(w, pw, desc, s.playerSpec)
	if err != nil {
		return nil, fmt.Errorf("sim: load %s: %w", id, err)
	}

	objectives := make([]gamestate.Objective, 0, len(desc.Objectives))
	for _, o := range desc.Objectives {
		objectives = append(objectives, gamestate.Objective{
			ID:     o.ID,
			Label:  o.Label,
			Kind:   gamestate.ObjectiveKind(o.Kind),
			Target: o.Target,
			Count:  o.Count,
		})
	}
	session := gamestate.NewSession(gamestate.SessionParams{
		LevelID:      desc.ID,
		LevelName:    desc.Name,
		TimeLimit:    desc.TimeLimit,
		RequiredMana: desc.RequiredMana,
		Objectives:   objectives,
		Script:       script,
	})

	dt := s.dt
	inputs := system.NewInputSystem()
	clock := system.NewSessionClockSystem(session, desc.Bounds, dt)
	scheduler := ecs.NewScheduler(
		inputs,
		system.NewPlayerControllerSystem(pw, s.cues, dt, s.log),
		system.NewPhysicsSystem(pw, dt),
		system.NewGroundingSystem(pw, s.cues, dt, s.log),
		system.NewPickupSystem(pw, session, s.cues, s.log),
		system.NewObstacleSystem(pw, session, s.cues, s.log),
		system.NewTriggerSystem(session, s.cues, s.log),
		clock,
	)
	system.SyncTransforms(w, pw)

	s.log.Info("level loaded",
		zap.String("level", desc.ID),
		zap.Stringer("session", session.ID),
		zap.Int("entities", len(ecs.Entities(w))),
		zap.Int("bones", len(desc.Bones)))

	return &level{
		desc:      desc,
		world:     w,
		physics:   pw,
		scheduler: scheduler,
		inputs:    inputs,
		clock:     clock,
		player:    playerEnt,
		session:   session,
	}, nil
}
