package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DailyInput is the once-per-day habit log.
type DailyInput struct {
	ID                string
	Day               time.Time
	WakeUpTime        string // "HH:MM", empty when not reported
	MeditationMinutes *int
	WastedMinutes     *int
	CreatedAt         time.Time
}

// Validate checks the wake-up time format and that durations are not negative.
func (d *DailyInput) Validate() error {
	if d.WakeUpTime != "" {
		if _, err := ParseClock(d.WakeUpTime); err != nil {
			return err
		}
	}
	if d.MeditationMinutes != nil && *d.MeditationMinutes < 0 {
		return Invalid("meditationDuration", "must not be negative")
	}
	if d.WastedMinutes != nil && *d.WastedMinutes < 0 {
		return Invalid("timeWastedRandomly", "must not be negative")
	}
	return nil
}

// WokeUpBy reports whether the reported wake-up time is at or before cutoff minutes after midnight.
func (d *DailyInput) WokeUpBy(cutoff int) bool {
	if d.WakeUpTime == "" {
		return false
	}
	m, err := ParseClock(d.WakeUpTime)
	return err == nil && m <= cutoff
}

// ParseClock converts "HH:MM" (or "H") into minutes after midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, found := strings.Cut(s, ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, Invalid("time", "%q is not HH:MM", s)
	}
	m := 0
	if found {
		if m, err = strconv.Atoi(mm); err != nil {
			return 0, Invalid("time", "%q is not HH:MM", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, Invalid("time", "%q is out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
