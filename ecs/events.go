package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	// EventTrackEnter carries a timeline.Transition.
	EventTrackEnter = "timeline.enter"
	// EventTrackExit carries a timeline.Transition.
	EventTrackExit = "timeline.exit"
	// EventTimelineEnded is pushed once per stop.
	EventTimelineEnded = "timeline.ended"
)

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

// Pending returns the events pushed so far this frame. The queue is cleared by
// World.Update after every system has seen it.
func (q *EventQueue) Pending() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	return append([]Event(nil), q.items...)
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
	q.items = nil
}
