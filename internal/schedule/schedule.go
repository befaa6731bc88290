// Package schedule turns cron expressions and scheduler timestamps into
// the strings the dashboard shows. Parsing problems degrade to fixed
// sentinel strings or to the input itself; nothing here returns an
// error to the render path.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Sentinel strings FormatNextRun degrades to.
const (
	NotScheduled = "Not scheduled"
	InvalidDate  = "Invalid date"
	PastDue      = "Past due"
)

// CronToHuman describes a five-field cron expression in plain words,
// e.g. "0 10 * * *" -> "Daily at 10:00 AM". It is total: on a field
// count mismatch or any token it cannot read, the expression comes
// back unchanged.
func CronToHuman(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}
	min, ok := numField(fields[0], 0, 59)
	if !ok {
		return expr
	}
	hour, ok := numField(fields[1], 0, 23)
	if !ok {
		return expr
	}
	dom, month, dow := fields[2], fields[3], fields[4]
	clock := clock12(hour, min)

	switch {
	case dom == "*" && month == "*" && dow == "*":
		return "Daily at " + clock
	case dom == "*" && month == "*":
		if day, ok := weekdayName(dow); ok {
			return "Every " + day + " at " + clock
		}
	case month == "*" && dow == "*":
		if n, ok := numField(dom, 1, 31); ok {
			return fmt.Sprintf("Monthly on day %d at %s", n, clock)
		}
	}
	return expr
}

// FormatNextRun renders a scheduler timestamp relative to now. The
// caller supplies now so the function stays deterministic under test.
func FormatNextRun(iso string, now time.Time) string {
	if iso == "" {
		return NotScheduled
	}
	t, err := ParseISO(iso)
	if err != nil {
		return InvalidDate
	}
	if t.Before(now) {
		return PastDue
	}
	d := t.Sub(now)
	switch {
	case d < time.Hour:
		return inUnits(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return inUnits(int(d.Hours()), "hour")
	default:
		return t.Format("Jan 2, 3:04 PM")
	}
}

// ParseISO parses the timestamp shapes the scheduler has been seen to
// emit: RFC 3339 first, then a few timezone-less fallbacks.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Next computes the next occurrence of a standard five-field cron
// expression after the given instant.
func Next(expr string, after time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing cron %q: %w", expr, err)
	}
	return sched.Next(after), nil
}

// CronForDailyTime builds the five-field expression for a daily run at
// the given wall-clock time: "10:00" -> "0 10 * * *".
func CronForDailyTime(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("parsing delivery time %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

func inUnits(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("In 1 %s", unit)
	}
	return fmt.Sprintf("In %d %ss", n, unit)
}

func clock12(hour, min int) string {
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, min, ampm)
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// weekdayName reads a cron day-of-week token: 0-7 (both 0 and 7 mean
// Sunday) or a three-letter name.
func weekdayName(s string) (string, bool) {
	if n, ok := numField(s, 0, 7); ok {
		return weekdays[n%7], true
	}
	for _, name := range weekdays {
		if strings.EqualFold(name[:3], s) {
			return name, true
		}
	}
	return "", false
}

// numField reads an unsigned numeric cron field within [lo, hi]. Signs,
// ranges, steps and lists all fail, which callers treat as "leave the
// expression alone".
func numField(s string, lo, hi int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
