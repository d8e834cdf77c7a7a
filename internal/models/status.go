package models

import "time"

// Status is a listing's availability state. Transitions are one-way:
// open -> closed, never back.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ComputeStatus returns the effective status of a listing at the given
// instant. A closed listing stays closed; an open listing becomes closed
// once now reaches its end time. The function is pure — persisting the
// transition is the caller's job, which keeps the observe/mutate split of
// the lazy closing check explicit.
func ComputeStatus(now, endTime time.Time, stored Status) Status {
	if stored == StatusClosed {
		return StatusClosed
	}
	if !now.Before(endTime) {
		return StatusClosed
	}
	return StatusOpen
}
