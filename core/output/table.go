package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"virgin-history/core/types"
)

// TableFormatter renders an aligned table for terminal inspection.
type TableFormatter struct{}

// Format returns the format type
func (f *TableFormatter) Format() Format { return FormatTable }

// Render writes the records to w
func (f *TableFormatter) Render(w io.Writer, records []types.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Fields, "\t"))
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.Timestamp.UTC().Format(TimeLayout),
			r.Category,
			r.Direction,
			r.Quantity,
			r.Cost.String(),
			r.Number,
		)
	}
	return tw.Flush()
}
