package ecs

// EventKind names an event payload type.
type EventKind string

// Event is a world event. Data's concrete type is fixed per Kind.
type Event struct {
	Kind EventKind
	Data any
}

// EventQueue collects events for the current World.Update. Every system
// that runs after the producer sees the events; the world clears the queue
// once all systems have run.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Each visits queued events of kind in push order.
func (q *EventQueue) Each(kind EventKind, fn func(Event)) {
	if q == nil {
		return
	}
	for _, evt := range q.items {
		if evt.Kind == kind {
			fn(evt)
		}
	}
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
