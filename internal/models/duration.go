package models

import "time"

// Duration is the auction running time in days. Only the four listed
// values are accepted.
type Duration int

const (
	ThreeDays Duration = 3
	OneWeek   Duration = 7
	TwoWeeks  Duration = 14
	FourWeeks Duration = 28
)

// durationLabels maps each allowed duration to its display label. The
// label has no behavioral effect beyond presentation.
var durationLabels = map[Duration]string{
	ThreeDays: "Three Days",
	OneWeek:   "One Week",
	TwoWeeks:  "Two Weeks",
	FourWeeks: "Four Weeks",
}

// Valid reports whether d is one of the allowed auction durations.
func (d Duration) Valid() bool {
	_, ok := durationLabels[d]
	return ok
}

// Label returns the human-readable name for the duration, or "" for an
// invalid value.
func (d Duration) Label() string {
	return durationLabels[d]
}

// EndTime derives a listing's expiry from its creation instant.
func (d Duration) EndTime(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, int(d))
}
