package clock

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical calendar-day format (dd-mm-yyyy) used as the
// key for every per-day record in the system. It is a storage key, not a
// display artifact: the ledger store, the range assembler and the attendance
// collection must all agree on it.
const DayKeyLayout = "02-01-2006"

// displayTimeLayout is the 12-hour wall-clock format shown back to users.
const displayTimeLayout = "03:04 PM"

// Calendar resolves "which day is it" questions in one fixed time zone.
// The gym operates on a single local calendar (IST by default) regardless of
// where the request came from.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the given IANA time zone name, e.g. "Asia/Kolkata".
func NewCalendar(timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc}, nil
}

// Location returns the calendar's fixed time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current day key and a 12-hour display timestamp, both in
// the calendar's zone.
func (c *Calendar) Now() (dayKey string, displayTime string) {
	now := time.Now().In(c.loc)
	return now.Format(DayKeyLayout), now.Format(displayTimeLayout)
}

// DayKey formats an arbitrary instant as a canonical day key in the
// calendar's zone.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayKeyLayout)
}

// DisplayTime formats an arbitrary instant as a display timestamp.
func (c *Calendar) DisplayTime(t time.Time) string {
	return t.In(c.loc).Format(displayTimeLayout)
}

// ParseDayKey parses a canonical day key into the midnight instant of that
// day in the calendar's zone.
func (c *Calendar) ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// DaysInRange expands an inclusive [from, to] pair of day keys into the full
// ascending list of day keys it spans. Both bounds must be valid day keys and
// from must not be after to.
func (c *Calendar) DaysInRange(from, to string) ([]string, error) {
	start, err := c.ParseDayKey(from)
	if err != nil {
		return nil, err
	}
	end, err := c.ParseDayKey(to)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("invalid range: %s is after %s", from, to)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayKeyLayout))
	}
	return days, nil
}
