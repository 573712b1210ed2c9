package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncecere/gateway_insights/internal/config"
)

func testConfig() config.ReportingConfig {
	return config.ReportingConfig{
		Timezone:      "UTC",
		DefaultPeriod: "30d",
		MaxWindowDays: 180,
		CacheTTL:      2 * time.Minute,
	}
}

func TestResolveWindowDefaults(t *testing.T) {
	svc := NewService(nil, nil, nil, testConfig())

	window, err := svc.resolveWindow(WindowParams{})
	if err != nil {
		t.Fatalf("resolveWindow: %v", err)
	}
	if window.Period() != "30d" {
		t.Fatalf("period = %q, want 30d", window.Period())
	}
	if window.Timezone() != "UTC" {
		t.Fatalf("timezone = %q, want UTC", window.Timezone())
	}
}

func TestResolveWindowExplicitRange(t *testing.T) {
	svc := NewService(nil, nil, nil, testConfig())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	window, err := svc.resolveWindow(WindowParams{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("resolveWindow: %v", err)
	}
	if !window.Start().Equal(start) || !window.End().Equal(end) {
		t.Fatalf("bounds = [%v, %v)", window.Start(), window.End())
	}
}

func TestResolveWindowErrors(t *testing.T) {
	svc := NewService(nil, nil, nil, testConfig())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		params WindowParams
		want   error
	}{
		{"bad period", WindowParams{Period: "yesterday"}, ErrInvalidPeriod},
		{"bad timezone", WindowParams{Timezone: "Mars/Olympus"}, ErrInvalidTimezone},
		{"one-sided range", WindowParams{Start: &start}, ErrInvalidRange},
		{"inverted range", WindowParams{Start: &start, End: &end}, ErrInvalidRange},
		{"too large", WindowParams{Period: "365d"}, ErrWindowTooLarge},
	}
	for _, tc := range cases {
		if _, err := svc.resolveWindow(tc.params); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestBreakdownRejectsUnknownCategory(t *testing.T) {
	svc := NewService(nil, nil, nil, testConfig())

	if _, err := svc.Breakdown(context.Background(), WindowParams{}, "owners"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}
