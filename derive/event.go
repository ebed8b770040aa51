package derive

import "time"

// EventState values. Derived only, never stored.
const (
	EventScheduled = "scheduled"
	EventOngoing   = "ongoing"
	EventEnded     = "ended"
)

// EventState classifies an event window relative to today. Boundary dates
// are inclusive of ongoing: an event starting or ending today is ongoing.
func EventState(start time.Time, end *time.Time, today time.Time) string {
	d := DateOf(today)
	if d.Before(DateOf(start)) {
		return EventScheduled
	}
	if end != nil && d.After(DateOf(*end)) {
		return EventEnded
	}
	return EventOngoing
}
