package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue collects events for one scheduler pass. Several systems may
// read the same events; the scheduler clears the queue once per Advance.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Each visits the queued events of type typ without consuming them. An
// empty typ visits everything.
func (q *EventQueue) Each(typ string, fn func(Event)) {
	if q == nil {
		return
	}
	for _, evt := range q.items {
		if typ == "" || evt.Type == typ {
			fn(evt)
		}
	}
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
