// Package usage models the per-day usage counters reported by the backend.
package usage

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// Today holds counters that reset at the backend's day boundary.
type Today struct {
	Generations int `json:"generations"`
	Tools       int `json:"tools"`
}

// Month holds counters for the current billing month.
type Month struct {
	Generations int `json:"generations"`
}

// Counters is the usage body as the backend reports it.
type Counters struct {
	Today Today `json:"today"`
	Month Month `json:"month"`
}

// Snapshot is a set of counters valid for exactly one calendar day.
type Snapshot struct {
	Date types.Date
	Counters
}

// Delta is a predicted change applied on top of an authoritative snapshot.
type Delta struct {
	Date        types.Date
	Generations int
	Tools       int
}

// DayOf returns the UTC calendar day containing t.
func DayOf(t time.Time) types.Date {
	t = t.UTC()
	return types.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// SameDay reports whether a and b name the same calendar day.
func SameDay(a, b types.Date) bool {
	return a.Format(types.DateFormat) == b.Format(types.DateFormat)
}

// New tags counters with a day.
func New(day types.Date, c Counters) Snapshot {
	return Snapshot{Date: day, Counters: c}
}

// Zero returns an empty snapshot for day.
func Zero(day types.Date) Snapshot {
	return Snapshot{Date: day}
}

// On returns the snapshot as seen on day. A snapshot recorded for another day
// is stale and reads as zero, since the backend rolled its counters over.
func (s Snapshot) On(day types.Date) Snapshot {
	if !SameDay(s.Date, day) {
		return Zero(day)
	}
	return s
}

// Apply adds a delta recorded for the same day. Deltas from other days are ignored.
func (s Snapshot) Apply(d Delta) Snapshot {
	if !SameDay(s.Date, d.Date) {
		return s
	}
	s.Today.Generations += d.Generations
	s.Month.Generations += d.Generations
	s.Today.Tools += d.Tools
	return s
}

// IsZero reports whether no counters are set.
func (d Delta) IsZero() bool {
	return d.Generations == 0 && d.Tools == 0
}
