// Package clock isolates "today" reads so date math stays deterministic in tests.
package clock

import "time"

// Clock supplies the current instant and the current UTC calendar day.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Today returns the current day truncated to UTC midnight.
	Today() time.Time
}

// System reads the wall clock.
type System struct{}

// Now returns the current instant.
func (System) Now() time.Time { return time.Now() }

// Today returns the current UTC calendar day.
func (System) Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixed is a Clock pinned to a single day, for tests.
type Fixed struct {
	Day time.Time
}

// FixedAt pins the clock to the given day (truncated to UTC midnight).
func FixedAt(day time.Time) Fixed {
	y, m, d := day.UTC().Date()
	return Fixed{Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Now returns the pinned day.
func (f Fixed) Now() time.Time { return f.Day }

// Today returns the pinned day.
func (f Fixed) Today() time.Time { return f.Day }
