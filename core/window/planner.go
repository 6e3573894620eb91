// Package window splits a date range into the bounded sub-ranges the
// provider's history API accepts per request.
package window

import (
	"time"

	"virgin-history/internal/errors"
)

// MaxSpanDays is the widest date range, in calendar days inclusive,
// that the provider accepts in one history request.
const MaxSpanDays = 15

// Window is one closed sub-range [Start, End], sized to fit a single
// history request.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Plan splits [start, end] into an ordered sequence of contiguous,
// non-overlapping windows of at most MaxSpanDays each. The end is
// clamped to now first, so future data is never requested; each
// window's successor starts one second after its predecessor ends.
// If start is after the clamped end the plan is empty.
func Plan(start, end, now time.Time) []Window {
	return PlanSpan(start, end, now, MaxSpanDays)
}

// PlanSpan is Plan with an explicit maximum span in days. A span of
// zero or less falls back to MaxSpanDays.
func PlanSpan(start, end, now time.Time, spanDays int) []Window {
	if spanDays <= 0 {
		spanDays = MaxSpanDays
	}
	if end.After(now) {
		end = now
	}
	if start.After(end) {
		return nil
	}

	// A window covering spanDays calendar days inclusive spans
	// (spanDays-1)*24h from its start.
	step := time.Duration(spanDays-1) * 24 * time.Hour

	var windows []Window
	for s := start; !s.After(end); {
		e := s.Add(step)
		if e.After(end) {
			e = end
		}
		windows = append(windows, Window{Start: s, End: e})
		s = e.Add(time.Second)
	}
	return windows
}

// RangeOf validates an explicit date range before any planning or
// network activity. The range end is clamped later, by Plan; here an
// end before the start is rejected outright.
func RangeOf(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, errors.Newf(errors.TypeInput,
			"range end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// MonthRange returns the exact bounds of a calendar month, from its
// first instant to its last (23:59:59 of the final day).
func MonthRange(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return Window{Start: start, End: end}
}

// YearRange returns the exact bounds of a calendar year.
func YearRange(year int) Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Second)
	return Window{Start: start, End: end}
}

// LastMonth returns the trailing 31 days ending at now.
func LastMonth(now time.Time) Window {
	return Window{Start: now.AddDate(0, 0, -31), End: now}
}

// LastYear returns the trailing 366 days ending at now.
func LastYear(now time.Time) Window {
	return Window{Start: now.AddDate(0, 0, -366), End: now}
}
