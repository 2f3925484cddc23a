package core

import (
	"fmt"
	"regexp"
	"time"
)

// TimeWindow is the inclusive [Start, End] pair used to filter transactions.
// A nil bound is open-ended; both nil means all time.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// AllTime reports whether the window has no bounds at all.
func (w TimeWindow) AllTime() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether t falls within the window, inclusive on whichever
// bounds are present.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// WindowQuery carries the raw query parameters a caller supplies to resolve
// a reporting window. All fields are optional.
type WindowQuery struct {
	Filter    string // "today" | "weekly" | "monthly" | ""
	Date      string // YYYY-MM-DD, single day
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
	WeekStart string // "sun" | "mon" (default "mon")
}

// InvalidDateFormatError names the query field whose value failed the strict
// YYYY-MM-DD check. It is a client error, never retried.
type InvalidDateFormatError struct {
	Field string
	Value string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid `%s` format %q: use YYYY-MM-DD", e.Field, e.Value)
}

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ResolveWindow turns raw query parameters into a TimeWindow.
//
// Precedence: an explicit `date` wins over `from`/`to`, and any explicit
// input disables the `filter` preset entirely. With no input at all the
// window is all time. Every bound is computed on UTC calendar days; an
// inverted from/to pair is swapped.
func ResolveWindow(q WindowQuery, now time.Time) (TimeWindow, error) {
	if q.Date != "" {
		day, err := parseYMD("date", q.Date)
		if err != nil {
			return TimeWindow{}, err
		}
		return dayWindow(day), nil
	}

	if q.From != "" || q.To != "" {
		var w TimeWindow
		if q.From != "" {
			day, err := parseYMD("from", q.From)
			if err != nil {
				return TimeWindow{}, err
			}
			start := startOfDay(day)
			w.Start = &start
		}
		if q.To != "" {
			day, err := parseYMD("to", q.To)
			if err != nil {
				return TimeWindow{}, err
			}
			end := endOfDay(day)
			w.End = &end
		}
		if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
			swappedStart := startOfDay(*w.End)
			swappedEnd := endOfDay(*w.Start)
			w.Start, w.End = &swappedStart, &swappedEnd
		}
		return w, nil
	}

	return presetWindow(q.Filter, q.WeekStart, now.UTC()), nil
}

func presetWindow(filter, weekStart string, now time.Time) TimeWindow {
	switch filter {
	case "today":
		return dayWindow(now)

	case "weekly":
		day := int(now.Weekday()) // 0=Sun .. 6=Sat
		var offset int
		if weekStart == "sun" {
			offset = day
		} else {
			// Monday start: Sunday counts as six days in.
			if day == 0 {
				offset = 6
			} else {
				offset = day - 1
			}
		}
		start := startOfDay(now.AddDate(0, 0, -offset))
		end := endOfDay(start.AddDate(0, 0, 6))
		return TimeWindow{Start: &start, End: &end}

	case "monthly":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the next month is the last day of this one.
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		end := endOfDay(last)
		return TimeWindow{Start: &start, End: &end}
	}

	return TimeWindow{}
}

func parseYMD(field, value string) (time.Time, error) {
	if !ymdPattern.MatchString(value) {
		return time.Time{}, &InvalidDateFormatError{Field: field, Value: value}
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, &InvalidDateFormatError{Field: field, Value: value}
	}
	return t, nil
}

func dayWindow(t time.Time) TimeWindow {
	start := startOfDay(t)
	end := endOfDay(t)
	return TimeWindow{Start: &start, End: &end}
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
