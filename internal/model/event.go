package model

import "time"

// Event represents a scheduled event for which attendance certificates
// can be issued.  Events are created by attendants, browsed publicly and
// flipped to finished exactly once by the finish workflow (re-running the
// workflow leaves the flag true and never reverts it).
//
// Fields:
//
//	ID          – primary key identifier (server assigned, monotonic).
//	Title       – event title, 1–255 characters.
//	Description – optional free-form description.
//	Location    – optional location, at most 255 characters.
//	StartsAt    – when the event begins.
//	EndsAt      – when the event ends.
//	Finished    – whether the finish workflow has run for this event.
type Event struct {
	ID          uint64    `json:"id"`          // events.id
	Title       string    `json:"title"`       // events.title
	Description *string   `json:"description"` // events.description (nullable)
	Location    *string   `json:"location"`    // events.location (nullable)
	StartsAt    time.Time `json:"starts_at"`   // events.starts_at
	EndsAt      time.Time `json:"ends_at"`     // events.ends_at
	Finished    bool      `json:"finished"`    // events.finished
}
