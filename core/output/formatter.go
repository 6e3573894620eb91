// Package output renders the final record set for archival or
// terminal inspection.
package output

import (
	"io"

	"virgin-history/core/types"
	"virgin-history/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable aligned table
	FormatTable Format = "table"

	// FormatCSV is a header-plus-rows delimited table that
	// round-trips back into records
	FormatCSV Format = "csv"
)

// Fields is the fixed column order of every rendering.
var Fields = []string{"date", "type", "direction", "quantity", "cost", "number"}

// TimeLayout is the timestamp encoding used in rendered output.
// Second precision, UTC.
const TimeLayout = "2006-01-02T15:04:05"

// Formatter renders a sorted record set in one format.
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the records to w
	Render(w io.Writer, records []types.Record) error
}

// New returns the formatter for a format name.
func New(format Format) (Formatter, error) {
	switch format {
	case FormatTable:
		return &TableFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeInput, "unknown output format: %s", format)
	}
}
