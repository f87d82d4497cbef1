package domain

import "time"

// Calendar days are civil dates: each time.Time is read in its own location, so a
// day loaded from storage (midnight UTC) matches "now" taken in any zone.

// DayLayout is the storage layout for calendar days.
const DayLayout = "2006-01-02"

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b carry the same civil date.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// DayBefore reports whether a's civil date is strictly before b's.
func DayBefore(a, b time.Time) bool {
	return DayKey(a) < DayKey(b)
}

// DayKey formats the civil date of t ("2006-01-02").
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a stored day key as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// DaysBetween counts calendar days from a's civil date to b's.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
