package domain

import "time"

// Event is an immutable fact recorded by an aggregate for asynchronous
// hand-off to other bounded contexts.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Recorder accumulates events emitted by a single aggregate instance until
// the orchestrating caller drains them with PullEvents. It follows the same
// single-writer discipline as aggregate mutation: not safe for concurrent
// record or drain.
type Recorder struct {
	events []Event
}

// Record appends an event preserving emission order.
func (r *Recorder) Record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns all accumulated events and clears the queue.
func (r *Recorder) PullEvents() []Event {
	events := r.events
	r.events = nil
	return events
}

// PendingEvents reports how many events are waiting to be drained.
func (r *Recorder) PendingEvents() int {
	return len(r.events)
}

// BaseEvent carries the timestamp shared by every concrete event.
type BaseEvent struct {
	At time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now()}
}

func (e BaseEvent) OccurredAt() time.Time { return e.At }
