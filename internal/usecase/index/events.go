package index

import "time"

// EventType identifies an index lifecycle transition.
type EventType string

const (
	// EventRebuildStarted fires when a rebuild begins.
	EventRebuildStarted EventType = "rebuild_started"
	// EventRebuildCompleted fires when a rebuild swaps in a new index.
	EventRebuildCompleted EventType = "rebuild_completed"
	// EventRebuildFailed fires when a rebuild aborts; the previous index is retained.
	EventRebuildFailed EventType = "rebuild_failed"
	// EventRebuildSkipped fires when a trigger finds a rebuild already in flight.
	EventRebuildSkipped EventType = "rebuild_skipped"
)

// Event is an index lifecycle notification delivered to subscribers.
type Event struct {
	Type       EventType
	EntryCount int
	Duration   time.Duration
	Err        error
	Time       time.Time
}
