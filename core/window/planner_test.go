package window

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// TestPlanFebruary2023 checks the documented two-window split of a
// 28-day month under the 15-day span limit.
func TestPlanFebruary2023(t *testing.T) {
	rng := MonthRange(2023, time.February)
	now := date("2024-01-01T00:00:00")

	windows := Plan(rng.Start, rng.End, now)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d: %v", len(windows), windows)
	}

	if !windows[0].Start.Equal(date("2023-02-01T00:00:00")) {
		t.Errorf("window 0 start = %v", windows[0].Start)
	}
	if !windows[0].End.Equal(date("2023-02-15T00:00:00")) {
		t.Errorf("window 0 end = %v", windows[0].End)
	}
	if !windows[1].Start.Equal(date("2023-02-15T00:00:01")) {
		t.Errorf("window 1 start = %v", windows[1].Start)
	}
	if !windows[1].End.Equal(date("2023-02-28T23:59:59")) {
		t.Errorf("window 1 end = %v", windows[1].End)
	}
}

// TestPlanProperties checks contiguity, ordering and exact union over
// a spread of ranges.
func TestPlanProperties(t *testing.T) {
	now := date("2024-06-15T12:00:00")
	maxSpan := time.Duration(MaxSpanDays-1) * 24 * time.Hour

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"single day", date("2023-03-03T00:00:00"), date("2023-03-03T23:59:59")},
		{"exactly one span", date("2023-03-01T00:00:00"), date("2023-03-15T00:00:00")},
		{"full year", date("2022-01-01T00:00:00"), date("2022-12-31T23:59:59")},
		{"end in future", date("2024-06-01T00:00:00"), date("2024-12-31T23:59:59")},
		{"zero length", date("2023-05-05T10:00:00"), date("2023-05-05T10:00:00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			windows := Plan(tc.start, tc.end, now)
			if len(windows) == 0 {
				t.Fatal("expected a non-empty plan")
			}

			clamped := tc.end
			if clamped.After(now) {
				clamped = now
			}

			if !windows[0].Start.Equal(tc.start) {
				t.Errorf("first window starts at %v, want %v", windows[0].Start, tc.start)
			}
			last := windows[len(windows)-1]
			if !last.End.Equal(clamped) {
				t.Errorf("last window ends at %v, want %v", last.End, clamped)
			}

			for i, w := range windows {
				if w.End.Before(w.Start) {
					t.Errorf("window %d end before start: %v", i, w)
				}
				if w.End.Sub(w.Start) > maxSpan {
					t.Errorf("window %d longer than max span: %v", i, w)
				}
				if i > 0 {
					prev := windows[i-1]
					if got := w.Start.Sub(prev.End); got != time.Second {
						t.Errorf("gap between windows %d and %d is %v, want 1s", i-1, i, got)
					}
				}
			}
		})
	}
}

// TestPlanEmpty checks that a start past the clamped end yields no
// windows.
func TestPlanEmpty(t *testing.T) {
	now := date("2023-06-01T00:00:00")

	if windows := Plan(date("2023-07-01T00:00:00"), date("2023-07-31T23:59:59"), now); windows != nil {
		t.Errorf("fully-future range produced windows: %v", windows)
	}
	if windows := Plan(date("2023-05-02T00:00:00"), date("2023-05-01T00:00:00"), now); windows != nil {
		t.Errorf("inverted range produced windows: %v", windows)
	}
}

// TestPlanSpanFallback checks that a non-positive span plans with the
// default, and that a wider span widens the windows.
func TestPlanSpanFallback(t *testing.T) {
	rng := MonthRange(2023, time.February)
	now := date("2024-01-01T00:00:00")

	fallback := PlanSpan(rng.Start, rng.End, now, 0)
	def := Plan(rng.Start, rng.End, now)
	if len(fallback) != len(def) {
		t.Fatalf("zero span planned %d windows, default plans %d", len(fallback), len(def))
	}

	wide := PlanSpan(rng.Start, rng.End, now, 31)
	if len(wide) != 1 {
		t.Fatalf("31-day span should cover February in one window, got %d: %v", len(wide), wide)
	}
	if !wide[0].Start.Equal(rng.Start) || !wide[0].End.Equal(rng.End) {
		t.Errorf("window = %v, want %v", wide[0], rng)
	}
}

func TestMonthRange(t *testing.T) {
	rng := MonthRange(2023, time.December)
	if !rng.Start.Equal(date("2023-12-01T00:00:00")) {
		t.Errorf("start = %v", rng.Start)
	}
	if !rng.End.Equal(date("2023-12-31T23:59:59")) {
		t.Errorf("end = %v", rng.End)
	}

	// Leap year February
	rng = MonthRange(2024, time.February)
	if !rng.End.Equal(date("2024-02-29T23:59:59")) {
		t.Errorf("leap february end = %v", rng.End)
	}
}

func TestYearRange(t *testing.T) {
	rng := YearRange(2022)
	if !rng.Start.Equal(date("2022-01-01T00:00:00")) {
		t.Errorf("start = %v", rng.Start)
	}
	if !rng.End.Equal(date("2022-12-31T23:59:59")) {
		t.Errorf("end = %v", rng.End)
	}
}

func TestRangeOfRejectsInvertedRange(t *testing.T) {
	_, err := RangeOf(date("2023-02-01T00:00:00"), date("2023-01-01T00:00:00"))
	if err == nil {
		t.Fatal("expected an error for end before start")
	}

	rng, err := RangeOf(date("2023-01-01T00:00:00"), date("2023-02-01T00:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rng.Start.Equal(date("2023-01-01T00:00:00")) || !rng.End.Equal(date("2023-02-01T00:00:00")) {
		t.Errorf("unexpected range: %v", rng)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date("2023-01-01T00:00:00"), End: date("2023-01-15T00:00:00")}
	if !w.Contains(date("2023-01-01T00:00:00")) || !w.Contains(date("2023-01-15T00:00:00")) {
		t.Error("window should contain its own bounds")
	}
	if w.Contains(date("2023-01-15T00:00:01")) {
		t.Error("window should not contain instants past its end")
	}
}
