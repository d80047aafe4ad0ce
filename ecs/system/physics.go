package system

import (
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/physics"
)

// PhysicsSystem steps the physics world, copies body poses into
// transforms and publishes the step's contacts as world events.
type PhysicsSystem struct {
	world *physics.World
	dt    float64
}

func NewPhysicsSystem(pw *physics.World, dt float64) *PhysicsSystem {
	return &PhysicsSystem{world: pw, dt: dt}
}

func (ps *PhysicsSystem) World() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.world == nil {
		return
	}
	ps.world.Step(ps.dt)
	SyncTransforms(w, ps.world)

	for _, evt := range ps.world.Drain() {
		w.Events().Push(ecs.Event{Kind: EventContact, Data: evt})
	}
}

// SyncTransforms copies every body's pose into its entity's Transform.
func SyncTransforms(w *ecs.World, pw *physics.World) {
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, body *component.Body, t *component.Transform) {
		st, ok := pw.State(body.Handle)
		if !ok {
			return
		}
		t.X = st.Position.X
		t.Y = st.Position.Y
		t.Rotation = st.Angle
	})
}
