package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventConstraintCreated   = "constraint_created"
	EventConstraintFailed    = "constraint_failed"
	EventConstraintReleased  = "constraint_released"
	EventConstraintsRestored = "constraints_restored"
)

// ConstraintEvent is the payload of the constraint event types.
type ConstraintEvent struct {
	Entity Entity
	Name   string
	Reason string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
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
