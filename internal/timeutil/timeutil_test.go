package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestNewWindowDays(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2024, time.November, 7, 12, 0, 0, 0, time.UTC)
	win, err := NewWindow("7d", now, loc)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if got := win.Period(); got != "7d" {
		t.Fatalf("unexpected period %s", got)
	}
	end := win.End()
	if !end.Equal(now.In(loc)) {
		t.Fatalf("unexpected end %v", end)
	}
	expectedStart := end.Add(-7 * 24 * time.Hour)
	if !win.Start().Equal(expectedStart) {
		t.Fatalf("unexpected start %v", win.Start())
	}
	if win.Timezone() != loc.String() {
		t.Fatalf("unexpected timezone %s", win.Timezone())
	}
	if win.StartString() == "" || win.EndString() == "" {
		t.Fatalf("expected formatted timestamps")
	}
}

func TestNewWindowHours(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	win, err := NewWindow("24h", now, loc)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if win.Duration() != 24*time.Hour {
		t.Fatalf("unexpected duration %v", win.Duration())
	}
	if !win.Contains(now.Add(-12 * time.Hour)) {
		t.Fatalf("expected timestamp within window")
	}
	if win.Contains(now.Add(-25 * time.Hour)) {
		t.Fatalf("timestamp should be outside window")
	}
}

func TestNewWindowInvalid(t *testing.T) {
	if _, err := NewWindow("bad", time.Now(), time.UTC); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod")
	}
}

func TestDayStringRoundTrip(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, time.June, 3, 18, 45, 0, 0, loc)
	day := DayString(ts, loc)
	if day != "2025-06-03" {
		t.Fatalf("unexpected day string %s", day)
	}
	parsed, err := ParseDay(day, loc)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if !parsed.Equal(TruncateToDay(ts, loc)) {
		t.Fatalf("round trip mismatch: %v", parsed)
	}
}

func TestDayStringOrderMatchesChronology(t *testing.T) {
	loc := time.UTC
	earlier := DayString(time.Date(2025, time.May, 31, 0, 0, 0, 0, loc), loc)
	later := DayString(time.Date(2025, time.June, 1, 0, 0, 0, 0, loc), loc)
	if !(earlier < later) {
		t.Fatalf("lexicographic order must match chronology: %s vs %s", earlier, later)
	}
}

func TestWindowDays(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, time.June, 1, 6, 0, 0, 0, loc)
	end := time.Date(2025, time.June, 4, 2, 0, 0, 0, loc)
	win, err := NewWindowFromRange(start, end, loc, "custom_3d")
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if got := win.Days(); got != 4 {
		t.Fatalf("expected 4 calendar dates, got %d", got)
	}
}
