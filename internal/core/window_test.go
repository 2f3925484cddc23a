package core

import (
	"errors"
	"testing"
	"time"
)

// Wednesday, so weekly windows are unambiguous in both conventions.
var testNow = time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)

func TestResolveWindowSingleDate(t *testing.T) {
	w, err := ResolveWindow(WindowQuery{Date: "2025-03-10"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start == nil || w.End == nil {
		t.Fatal("expected both bounds set")
	}
	if got, want := *w.Start, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	if w.End.Year() != 2025 || w.End.Month() != 3 || w.End.Day() != 10 {
		t.Errorf("end on wrong day: %v", w.End)
	}
	if w.End.Hour() != 23 || w.End.Minute() != 59 || w.End.Second() != 59 {
		t.Errorf("end not at end of day: %v", w.End)
	}
}

func TestResolveWindowPrecedence(t *testing.T) {
	// Explicit date wins over both the preset and the range.
	dateOnly, err := ResolveWindow(WindowQuery{Date: "2025-03-10"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	combined, err := ResolveWindow(WindowQuery{
		Filter: "weekly",
		Date:   "2025-03-10",
		From:   "2025-01-01",
		To:     "2025-02-01",
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !combined.Start.Equal(*dateOnly.Start) || !combined.End.Equal(*dateOnly.End) {
		t.Errorf("date did not win precedence: got [%v, %v]", combined.Start, combined.End)
	}

	// A range disables the preset too.
	ranged, err := ResolveWindow(WindowQuery{Filter: "monthly", From: "2025-01-15"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ranged.End != nil {
		t.Errorf("open-ended range should have nil end, got %v", ranged.End)
	}
	if got, want := *ranged.Start, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
}

func TestResolveWindowInvertedRangeSwapped(t *testing.T) {
	w, err := ResolveWindow(WindowQuery{From: "2025-03-20", To: "2025-03-01"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start.Day() != 1 || w.End.Day() != 20 {
		t.Errorf("inverted range not swapped: [%v, %v]", w.Start, w.End)
	}
	if w.Start.Hour() != 0 || w.End.Hour() != 23 {
		t.Errorf("swap lost day boundaries: [%v, %v]", w.Start, w.End)
	}
}

func TestResolveWindowPresets(t *testing.T) {
	tests := []struct {
		name      string
		query     WindowQuery
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today",
			query:     WindowQuery{Filter: "today"},
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 12, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "weekly monday start",
			query:     WindowQuery{Filter: "weekly", WeekStart: "mon"},
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 16, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "weekly sunday start",
			query:     WindowQuery{Filter: "weekly", WeekStart: "sun"},
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 15, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "monthly",
			query:     WindowQuery{Filter: "monthly"},
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow(tt.query, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Start == nil || w.End == nil {
				t.Fatal("expected both bounds set")
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", w.End, tt.wantEnd)
			}
		})
	}
}

func TestResolveWindowWeeklyAlwaysSevenDays(t *testing.T) {
	// Sweep a couple of weeks of "now" values; the weekly window must start
	// on the configured weekday and span exactly seven calendar days.
	for offset := 0; offset < 14; offset++ {
		now := testNow.AddDate(0, 0, offset)
		for _, ws := range []string{"mon", "sun"} {
			w, err := ResolveWindow(WindowQuery{Filter: "weekly", WeekStart: ws}, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			wantDay := time.Monday
			if ws == "sun" {
				wantDay = time.Sunday
			}
			if w.Start.Weekday() != wantDay {
				t.Errorf("now=%v weekStart=%s: starts on %v", now, ws, w.Start.Weekday())
			}
			if days := EpochDay(*w.End) - EpochDay(*w.Start) + 1; days != 7 {
				t.Errorf("now=%v weekStart=%s: spans %d days", now, ws, days)
			}
			if !w.Contains(now) {
				t.Errorf("now=%v weekStart=%s: window does not contain now", now, ws)
			}
		}
	}
}

func TestResolveWindowMonthlyEndIsLastDay(t *testing.T) {
	tests := []struct {
		now      time.Time
		lastDay  int
	}{
		{time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 29}, // leap year
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tt := range tests {
		w, err := ResolveWindow(WindowQuery{Filter: "monthly"}, tt.now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.End.Day() != tt.lastDay {
			t.Errorf("now=%v: end day = %d, want %d", tt.now, w.End.Day(), tt.lastDay)
		}
	}
}

func TestResolveWindowAllTime(t *testing.T) {
	for _, q := range []WindowQuery{{}, {Filter: "none"}, {Filter: "bogus"}} {
		w, err := ResolveWindow(q, testNow)
		if err != nil {
			t.Fatalf("query %+v: unexpected error: %v", q, err)
		}
		if !w.AllTime() {
			t.Errorf("query %+v: expected all-time window", q)
		}
		if !w.Contains(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("all-time window should contain everything")
		}
	}
}

func TestResolveWindowInvalidDates(t *testing.T) {
	tests := []struct {
		field string
		query WindowQuery
	}{
		{"date", WindowQuery{Date: "2025/03/10"}},
		{"date", WindowQuery{Date: "20250310"}},
		{"date", WindowQuery{Date: "2025-13-45"}},
		{"from", WindowQuery{From: "March 1"}},
		{"to", WindowQuery{From: "2025-01-01", To: "yesterday"}},
	}
	for _, tt := range tests {
		_, err := ResolveWindow(tt.query, testNow)
		var invalid *InvalidDateFormatError
		if !errors.As(err, &invalid) {
			t.Fatalf("query %+v: expected InvalidDateFormatError, got %v", tt.query, err)
		}
		if invalid.Field != tt.field {
			t.Errorf("query %+v: field = %q, want %q", tt.query, invalid.Field, tt.field)
		}
	}
}
