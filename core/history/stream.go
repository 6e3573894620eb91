// Package history streams a subscriber's usage records across an
// arbitrary date range by paginating over time windows and result
// pages.
package history

import (
	"context"
	"time"

	"virgin-history/core/types"
	"virgin-history/core/window"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 500

// PageSource issues one remote history request and decodes the result.
// Implementations own the authenticated session; a source is used by
// exactly one Stream at a time.
type PageSource interface {
	// Page returns the given zero-based page of records for one
	// sub-range. A transport failure or an undecodable record is an
	// error; a short or empty page is a normal end-of-range signal.
	Page(ctx context.Context, subscriber string, win window.Window, page, size int) ([]types.Record, error)
}

// Stream lazily walks the planned windows in order, paginating within
// each window until a page comes back shorter than the page size. No
// window is requested before the previous window's records have been
// consumed. The stream is finite and not restartable; records carry no
// cross-page ordering guarantee, so callers sort after materializing.
//
// Usage follows the scanner pattern:
//
//	for stream.Next() {
//	    r := stream.Record()
//	    ...
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	ctx        context.Context
	src        PageSource
	subscriber string
	windows    []window.Window
	pageSize   int

	wi         int // current window index
	page       int // next page to request in the current window
	windowDone bool

	buf []types.Record
	bi  int

	cur  types.Record
	err  error
	done bool
}

// NewStream creates a stream over the given windows, in planner order.
func NewStream(ctx context.Context, src PageSource, subscriber string, windows []window.Window, pageSize int) *Stream {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Stream{
		ctx:        ctx,
		src:        src,
		subscriber: subscriber,
		windows:    windows,
		pageSize:   pageSize,
	}
}

// Next advances to the next record. It returns false when the range is
// exhausted or a fetch failed; Err distinguishes the two.
func (s *Stream) Next() bool {
	if s.err != nil || s.done {
		return false
	}

	for {
		if s.bi < len(s.buf) {
			s.cur = s.buf[s.bi]
			s.bi++
			return true
		}

		if s.windowDone {
			s.wi++
			s.page = 0
			s.windowDone = false
		}
		if s.wi >= len(s.windows) {
			s.done = true
			return false
		}

		records, err := s.src.Page(s.ctx, s.subscriber, s.windows[s.wi], s.page, s.pageSize)
		if err != nil {
			s.err = err
			return false
		}
		s.page++

		// A short page is the last page of this window; the API
		// exposes no page count header.
		if len(records) < s.pageSize {
			s.windowDone = true
		}

		s.buf = records
		s.bi = 0
	}
}

// Record returns the current record. Valid only after Next returned
// true.
func (s *Stream) Record() types.Record {
	return s.cur
}

// Err returns the first error encountered, if any.
func (s *Stream) Err() error {
	return s.err
}

// Collect materializes the rest of the stream. The result is in
// delivery order, not sorted.
func (s *Stream) Collect() ([]types.Record, error) {
	var records []types.Record
	for s.Next() {
		records = append(records, s.Record())
	}
	return records, s.Err()
}

// Fetch plans the windows covering rng as of now and materializes the
// whole range from src, sorted ascending by timestamp. A spanDays of
// zero or less plans with the default window span.
func Fetch(ctx context.Context, src PageSource, subscriber string, rng window.Window, pageSize, spanDays int) ([]types.Record, error) {
	return FetchAt(ctx, src, subscriber, rng, pageSize, spanDays, time.Now().UTC())
}

// FetchAt is Fetch with an explicit clock, for tests.
func FetchAt(ctx context.Context, src PageSource, subscriber string, rng window.Window, pageSize, spanDays int, now time.Time) ([]types.Record, error) {
	windows := window.PlanSpan(rng.Start, rng.End, now, spanDays)
	records, err := NewStream(ctx, src, subscriber, windows, pageSize).Collect()
	if err != nil {
		return nil, err
	}
	types.SortRecords(records)
	return records, nil
}
