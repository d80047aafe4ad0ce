package ecs

import "github.com/milk9111/boneklod/ecs/component"

// World owns entities, their components and the per-step event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	order    []component.ComponentID
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := &sparseSet[T]{}
	w.stores[kind.ID()] = s
	w.order = append(w.order, kind.ID())
	return s
}
