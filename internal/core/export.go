package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

// ExportOptions controls the delimited-text output.
type ExportOptions struct {
	// Delimiter separates fields (default ',').
	Delimiter rune

	// UseCRLF terminates records with \r\n instead of \n.
	UseCRLF bool
}

// exportFlushInterval is how many records are buffered between flushes.
const exportFlushInterval = 1000

func (o ExportOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// Validate rejects delimiters that cannot produce parseable output.
func (o ExportOptions) Validate() error {
	d := o.delimiter()
	if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError || !utf8.ValidRune(d) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return nil
}

// Serialize writes rows as delimited text: a header record of column labels,
// then one record per row with cells in schema order. Fields containing the
// delimiter, a quote or a line break are quoted and embedded quotes doubled.
//
// Row content never causes an error; an empty schema or an invalid delimiter
// does, as do write failures on w.
func Serialize(w io.Writer, rows []RowRef, columns []Column, opts ExportOptions) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter()
	cw.UseCRLF = opts.UseCRLF

	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = col.Header()
	}
	if err := writeRecord(w, cw, record); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for n, ref := range rows {
		for i, col := range columns {
			record[i] = ref.Row.Get(col.Key).String()
		}
		if err := writeRecord(w, cw, record); err != nil {
			return fmt.Errorf("write row %s: %w", ref.ID, err)
		}
		if (n+1)%exportFlushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("flush export: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// writeRecord writes one record through cw. A record holding a single empty
// field would come out as a blank line, which readers skip, so it is written
// as a quoted empty field instead.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return cw.Write(record)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	line := "\"\"\n"
	if cw.UseCRLF {
		line = "\"\"\r\n"
	}
	_, err := io.WriteString(w, line)
	return err
}

// SerializeBytes is Serialize into a byte slice.
func SerializeBytes(rows []RowRef, columns []Column, opts ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, rows, columns, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
