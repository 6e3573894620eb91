package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"virgin-history/core/types"
	"virgin-history/internal/errors"
)

// CSVFormatter writes records as a header-plus-rows CSV table. Every
// row written here decodes back into an identical record via ReadCSV,
// so archived exports can feed a later merge.
type CSVFormatter struct{}

// Format returns the format type
func (f *CSVFormatter) Format() Format { return FormatCSV }

// Render writes the records to w
func (f *CSVFormatter) Render(w io.Writer, records []types.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Fields); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(TimeLayout),
			r.Category,
			r.Direction,
			strconv.FormatInt(r.Quantity, 10),
			r.Cost.String(),
			r.Number,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes an archived export back into records. The header row
// is required. Any row that does not decode is an error; a silently
// dropped billing record would be worse than aborting.
func ReadCSV(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Fields)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.TypeDecode, "empty export: missing header row")
	}
	if err != nil {
		return nil, errors.Decode("failed to read export header", err)
	}
	for i, name := range Fields {
		if header[i] != name {
			return nil, errors.Newf(errors.TypeDecode,
				"unexpected export header %q, want %q", header[i], name)
		}
	}

	var records []types.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Decode("failed to read export row", err)
		}
		rec, err := decodeRow(row)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeDecode, err, "export line %d", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRow maps one export row onto a record.
func decodeRow(row []string) (types.Record, error) {
	ts, err := time.ParseInLocation(TimeLayout, row[0], time.UTC)
	if err != nil {
		return types.Record{}, err
	}
	quantity, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return types.Record{}, err
	}
	cost, err := decimal.NewFromString(row[4])
	if err != nil {
		return types.Record{}, err
	}
	return types.Record{
		Timestamp: ts,
		Category:  row[1],
		Direction: row[2],
		Quantity:  quantity,
		Cost:      cost,
		Number:    row[5],
	}, nil
}
