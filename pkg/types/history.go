package types

import "time"

// History event types, one per lifecycle transition.
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventCompleted = "completed"
	EventDeleted   = "deleted"
)

// validEvents is the set of recognized event type values.
var validEvents = map[string]bool{
	EventCreated:   true,
	EventUpdated:   true,
	EventCompleted: true,
	EventDeleted:   true,
}

// ValidEventType reports whether e is a recognized event type value.
func ValidEventType(e string) bool {
	return validEvents[e]
}

// HistoryEvent is an immutable record of a lifecycle transition on a
// Task or Plan. SubjectTitle is a denormalized snapshot so the event
// stays readable after its subject is deleted. Events are append-only;
// they are never updated, and removed only by an explicit bulk clear.
type HistoryEvent struct {
	ID           string    // UUID v7, generated on append.
	SubjectID    string    // Task or Plan id the event refers to.
	SubjectTitle string    // Title snapshot at event time.
	EventType    string    // One of the Event constants.
	Details      string    // Optional free text.
	Timestamp    time.Time // Event time, immutable.
}
