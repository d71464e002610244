// Package tabular reads and writes the comma separated tables the map data
// file is stored in.
//
// The reader is deliberately forgiving. It never reports malformed quoting:
// an unterminated quote simply runs to the end of the input, and a quote that
// appears in the middle of an unquoted field starts a quoted section there.
//
//	rows := tabular.Parse("Map,Char\nAlpha,A\n")
//	// rows[0] is the header row
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed record.
type Row []string

// Parse splits text into rows of fields.
//
// Fields are separated by ',' and rows by '\n'. A field may be wrapped in
// double quotes, inside which ',' and '\n' are literal and "" is one quote.
// Carriage returns outside quotes are dropped so CRLF input parses the same
// as LF input. A final row without a terminating newline is still returned
// when it holds any content.
func Parse(text string) []Row {
	var (
		rows     []Row
		row      Row
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n':
			row = append(row, field.String())
			rows = append(rows, row)
			row = nil
			field.Reset()
		case '\r':
		default:
			field.WriteByte(c)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		row = append(row, field.String())
		rows = append(rows, row)
	}

	return rows
}

// ParseReader reads r to the end and parses its contents.
// The only error returned is the one from reading.
func ParseReader(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return Parse(string(data)), nil
}

// Write serializes rows as CSV with LF line endings.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
