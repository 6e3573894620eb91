package cmd

import (
	"testing"
	"time"

	"virgin-history/internal/errors"
)

func resetRangeFlags() {
	fetchMonth = ""
	fetchYear = 0
	fetchLast = ""
	fetchFrom = ""
	fetchTo = ""
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("month", func(t *testing.T) {
		resetRangeFlags()
		fetchMonth = "2023-02"
		rng, err := resolveRange(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rng.Start != time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC) {
			t.Errorf("start = %v", rng.Start)
		}
		if rng.End != time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC) {
			t.Errorf("end = %v", rng.End)
		}
	})

	t.Run("explicit range", func(t *testing.T) {
		resetRangeFlags()
		fetchFrom = "2023-01-10"
		fetchTo = "2023-01-20"
		rng, err := resolveRange(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rng.End != time.Date(2023, 1, 20, 23, 59, 59, 0, time.UTC) {
			t.Errorf("end should cover the whole --to day, got %v", rng.End)
		}
	})

	t.Run("inverted explicit range", func(t *testing.T) {
		resetRangeFlags()
		fetchFrom = "2023-02-01"
		fetchTo = "2023-01-01"
		if _, err := resolveRange(now); !errors.IsType(err, errors.TypeInput) {
			t.Fatalf("expected an input error, got %v", err)
		}
	})

	t.Run("no selector", func(t *testing.T) {
		resetRangeFlags()
		if _, err := resolveRange(now); !errors.IsType(err, errors.TypeInput) {
			t.Fatalf("expected an input error, got %v", err)
		}
	})

	t.Run("conflicting selectors", func(t *testing.T) {
		resetRangeFlags()
		fetchMonth = "2023-02"
		fetchYear = 2023
		if _, err := resolveRange(now); !errors.IsType(err, errors.TypeInput) {
			t.Fatalf("expected an input error, got %v", err)
		}
	})

	t.Run("last month", func(t *testing.T) {
		resetRangeFlags()
		fetchLast = "month"
		rng, err := resolveRange(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rng.End != now {
			t.Errorf("end = %v, want now", rng.End)
		}
		if rng.Start != now.AddDate(0, 0, -31) {
			t.Errorf("start = %v", rng.Start)
		}
	})

	t.Run("bad last", func(t *testing.T) {
		resetRangeFlags()
		fetchLast = "week"
		if _, err := resolveRange(now); !errors.IsType(err, errors.TypeInput) {
			t.Fatalf("expected an input error, got %v", err)
		}
	})
}
