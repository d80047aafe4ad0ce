package sim

import (
	"github.com/milk9111/boneklod/camera"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/physics"
)

// BodyView is what the renderer needs to draw one entity.
type BodyView struct {
	Entity     ecs.Entity
	Body       component.Body
	Transform  component.Transform
	Appearance component.Appearance
}

// EachBody calls fn for every drawable entity of the loaded level.
func (s *Simulation) EachBody(fn func(BodyView)) {
	if s.level == nil {
		return
	}
	ecs.ForEach3(s.level.world, component.BodyComponent.Kind(), component.TransformComponent.Kind(), component.AppearanceComponent.Kind(),
		func(e ecs.Entity, b *component.Body, t *component.Transform, a *component.Appearance) {
			if a.Hidden {
				return
			}
			fn(BodyView{Entity: e, Body: *b, Transform: *t, Appearance: *a})
		})
}

// PlayerView is the klod as seen from outside the simulation.
type PlayerView struct {
	Entity   ecs.Entity
	State    physics.BodyState
	Radius   float64
	Mass     float64
	Absorbed float64
	Facing   float64
	Grounded bool
	// Controller is the active controller state name.
	Controller string

	player *component.Player
}

// Player returns the klod of the loaded level.
func (s *Simulation) Player() (PlayerView, bool) {
	if s.level == nil {
		return PlayerView{}, false
	}
	w := s.level.world
	e := s.level.player
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return PlayerView{}, false
	}
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return PlayerView{}, false
	}
	st, ok := s.level.physics.State(body.Handle)
	if !ok {
		return PlayerView{}, false
	}
	v := PlayerView{
		Entity:   e,
		State:    st,
		Radius:   p.Radius,
		Mass:     p.Mass(),
		Absorbed: p.Absorbed,
		Facing:   p.Facing,
		player:   p,
	}
	if c, ok := ecs.Get(w, e, component.ControllerComponent.Kind()); ok {
		v.Grounded = c.Grounded()
		v.Controller = c.StateName()
	}
	return v, true
}

// Physics is the physics world of the loaded level, nil outside a level.
func (s *Simulation) Physics() *physics.World {
	if s.level == nil {
		return nil
	}
	return s.level.physics
}

// Checksum hashes the dynamic bodies of the loaded level.
func (s *Simulation) Checksum() uint64 {
	if s.level == nil {
		return 0
	}
	return s.level.physics.Checksum()
}

// UpdateCamera moves the camera once per rendered frame. Outside Playing the
// camera holds its last framing.
func (s *Simulation) UpdateCamera(dt float64) {
	if !s.machine.Runs(gamestate.GroupCamera) {
		return
	}
	subject, ok := s.subject()
	if !ok {
		return
	}
	s.rig.Update(subject, s.lastIntent.Look, dt, s.level.physics)
}

func (s *Simulation) snapCamera() {
	subject, ok := s.subject()
	if !ok {
		return
	}
	s.rig.SetBounds(s.level.desc.Bounds, common.BaseWidth, common.BaseHeight)
	s.rig.Snap(subject, s.level.physics)
}

func (s *Simulation) subject() (camera.Subject, bool) {
	p, ok := s.Player()
	if !ok {
		return camera.Subject{}, false
	}
	return camera.Subject{Position: p.State.Position, Facing: p.Facing}, true
}
