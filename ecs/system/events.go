package system

import (
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/physics"
)

// EventContact carries a physics.ContactEvent drained after the step.
const EventContact ecs.EventKind = "contact"

func eachContact(w *ecs.World, fn func(physics.ContactEvent)) {
	w.Events().Each(EventContact, func(evt ecs.Event) {
		if c, ok := evt.Data.(physics.ContactEvent); ok {
			fn(c)
		}
	})
}

// contactEntity resolves the owner tag of a contact's other body.
func contactEntity(w *ecs.World, owner uint64) (ecs.Entity, bool) {
	e := ecs.Entity(owner)
	return e, owner != 0 && ecs.IsAlive(w, e)
}
