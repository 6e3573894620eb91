package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"virgin-history/core/types"
	"virgin-history/internal/errors"
)

func sample() []types.Record {
	return []types.Record{
		{
			Timestamp: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
			Category:  "VOICE",
			Direction: "OUT",
			Quantity:  125,
			Cost:      decimal.RequireFromString("0.29"),
			Number:    "555123456",
		},
		{
			Timestamp: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
			Category:  "DATA",
			Direction: "NEUTRAL",
			Quantity:  20480,
			Cost:      decimal.Zero,
			Number:    "",
		},
		{
			Timestamp: time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC),
			Category:  "SMS",
			Direction: "IN",
			Quantity:  1,
			Cost:      decimal.RequireFromString("0.1"),
			Number:    "48,601",
		},
	}
}

// TestCSVRoundTrip checks that every rendered row decodes back into
// an identical record, the contract the merge workflow relies on.
func TestCSVRoundTrip(t *testing.T) {
	records := sample()

	var buf bytes.Buffer
	if err := (&CSVFormatter{}).Render(&buf, records); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	decoded, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("got %d records, want %d", len(decoded), len(records))
	}
	for i := range records {
		if !records[i].Equal(decoded[i]) {
			t.Errorf("record %d round-tripped to %+v, want %+v", i, decoded[i], records[i])
		}
	}
}

func TestCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVFormatter{}).Render(&buf, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "date,type,direction,quantity,cost,number" {
		t.Errorf("header = %q", got)
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"wrong header", "when,type,direction,quantity,cost,number\n"},
		{"bad timestamp", "date,type,direction,quantity,cost,number\nnot-a-date,VOICE,OUT,1,0.1,555\n"},
		{"bad quantity", "date,type,direction,quantity,cost,number\n2023-01-01T10:00:00,VOICE,OUT,many,0.1,555\n"},
		{"bad cost", "date,type,direction,quantity,cost,number\n2023-01-01T10:00:00,VOICE,OUT,1,free,555\n"},
		{"missing column", "date,type,direction,quantity,cost,number\n2023-01-01T10:00:00,VOICE,OUT,1,0.1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected a decode error")
			}
			if !errors.IsType(err, errors.TypeDecode) {
				t.Fatalf("expected a decode error, got %v", err)
			}
		})
	}
}

// TestTableRender checks column order and alignment padding.
func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Render(&buf, sample()); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	header := strings.Fields(lines[0])
	for i, name := range Fields {
		if header[i] != name {
			t.Errorf("header column %d = %q, want %q", i, header[i], name)
		}
	}
	if !strings.Contains(lines[1], "2023-01-01T10:00:00") {
		t.Errorf("first row missing timestamp: %q", lines[1])
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatCSV} {
		f, err := New(format)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", format, err)
		}
		if f.Format() != format {
			t.Errorf("New(%s) returned a %s formatter", format, f.Format())
		}
	}

	if _, err := New("xml"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected an input error for unknown format, got %v", err)
	}
}
