package host

// EventType names a host event.
type EventType string

const (
	EventTick            EventType = "tick"
	EventSaveCreated     EventType = "save_created"
	EventSaveLoaded      EventType = "save_loaded"
	EventDayStarted      EventType = "day_started"
	EventContentReloaded EventType = "content_reloaded"
)

// Event is a host event payload.
type Event struct {
	Type EventType
	Data any
}

// Reloads reports whether the event may have replaced loaded bitmaps.
func (e Event) Reloads() bool {
	switch e.Type {
	case EventSaveCreated, EventSaveLoaded, EventDayStarted, EventContentReloaded:
		return true
	}
	return false
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

// Len returns the number of queued events.
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
