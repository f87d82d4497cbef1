package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/spf13/pflag"
)

// dayFlag is a calendar-day flag ("YYYY-MM-DD"). The zero value is unset.
type dayFlag struct {
	t time.Time
}

var _ pflag.Value = (*dayFlag)(nil)

func (d *dayFlag) String() string {
	if d.t.IsZero() {
		return ""
	}
	return domain.DayKey(d.t)
}

func (d *dayFlag) Set(s string) error {
	t, err := domain.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	d.t = t
	return nil
}

func (d *dayFlag) Type() string { return "date" }

func (d *dayFlag) ptr() *time.Time {
	if d.t.IsZero() {
		return nil
	}
	t := d.t
	return &t
}

// minutesFlag is a duration flag in minutes. It accepts "45", "1:30" or a Go
// duration such as "1h30m".
type minutesFlag struct {
	v *int
}

var _ pflag.Value = (*minutesFlag)(nil)

func (m *minutesFlag) String() string {
	if m.v == nil {
		return ""
	}
	return strconv.Itoa(*m.v)
}

func (m *minutesFlag) Set(s string) error {
	n, err := parseMinutes(s)
	if err != nil {
		return err
	}
	m.v = &n
	return nil
}

func (m *minutesFlag) Type() string { return "minutes" }

func parseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if hh, mm, ok := strings.Cut(s, ":"); ok {
		h, errH := strconv.Atoi(hh)
		m, errM := strconv.Atoi(mm)
		if errH == nil && errM == nil && m >= 0 && m < 60 {
			return h*60 + m, nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return int(d.Minutes()), nil
	}
	return 0, fmt.Errorf("expected minutes, H:MM or a duration like 1h30m, got %q", s)
}

// parseIndex converts a 1-based CLI position into a 0-based index.
func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", what, s)
	}
	return n - 1, nil
}
