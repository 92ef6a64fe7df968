package ecs

// Event is a gameplay event raised by a system during a frame. Props is
// owned by the event once pushed.
type Event struct {
	Type  string
	Props map[string]any
}

// EventQueue is a simple FIFO queue drained once per frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil || evt.Type == "" {
		return
	}
	q.items = append(q.items, evt)
}

// Emit is shorthand for Push(Event{Type: name, Props: props}).
func (q *EventQueue) Emit(name string, props map[string]any) {
	q.Push(Event{Type: name, Props: props})
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events in push order and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
