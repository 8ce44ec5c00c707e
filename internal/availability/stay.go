package availability

import "time"

// Stay is a half-open date range [CheckIn, CheckOut): the guest occupies the
// room on every night from CheckIn up to but not including CheckOut.
// Both fields are calendar dates at midnight UTC; time-of-day carries no
// meaning and is truncated before any comparison.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewStay builds a Stay from two dates, truncating any time-of-day component.
func NewStay(checkIn, checkOut time.Time) Stay {
	return Stay{
		CheckIn:  truncateToDay(checkIn),
		CheckOut: truncateToDay(checkOut),
	}
}

// IsZero reports whether either end of the range is unset.
func (s Stay) IsZero() bool {
	return s.CheckIn.IsZero() || s.CheckOut.IsZero()
}

// IsValid reports whether the range covers at least one night.
func (s Stay) IsValid() bool {
	return !s.IsZero() && s.CheckOut.After(s.CheckIn)
}

// Nights returns the number of nights covered by the range.
// Returns 0 when either date is unset or the range is inverted; callers use
// the zero as "not yet a valid range", never as an error.
func (s Stay) Nights() int {
	return Nights(s.CheckIn, s.CheckOut)
}

// Overlaps reports whether two half-open ranges share at least one night.
// With [a1,a2) and [b1,b2) this is a1 < b2 && b1 < a2, which makes a
// checkout on day X and a new check-in on day X non-conflicting.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

// Contains reports whether the given date falls inside the range.
func (s Stay) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(s.CheckIn) && d.Before(s.CheckOut)
}

// Nights computes the whole-day difference between two calendar dates.
// Missing or inverted inputs yield 0.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	in := truncateToDay(checkIn)
	out := truncateToDay(checkOut)
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

// truncateToDay drops the time-of-day component, keeping the calendar date
// in UTC. Dates must be compared as dates, not timestamps, or a stay parsed
// in one timezone drifts a day against one parsed in another.
func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
