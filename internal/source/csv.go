package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/gridview/internal/core"
)

// LoadCSV reads delimited text into a dataset. The first record is the
// header; each header becomes a sortable, filterable column whose key is the
// normalized header text. Cells are cleaned of spreadsheet artifacts and
// kept as strings; empty cells become Null. Short records are padded with
// Null, records longer than the header are an error.
func LoadCSV(r io.Reader, opts Options) (core.Dataset, error) {
	text, _ := wrap(r, opts.maxBytes())

	cr := csv.NewReader(text)
	cr.Comma = opts.delimiter(FormatCSV)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return core.Dataset{}, fmt.Errorf("%w: empty file", ErrInvalidCSV)
	}
	if err != nil {
		return core.Dataset{}, csvError(err)
	}

	columns, err := columnsFromHeader(header)
	if err != nil {
		return core.Dataset{}, err
	}

	var rows []core.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.Dataset{}, csvError(err)
		}
		if isBlankRecord(record) {
			continue
		}
		if len(record) > len(columns) {
			line, _ := cr.FieldPos(0)
			return core.Dataset{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrInvalidCSV, line, len(record), len(columns))
		}

		row := make(core.Row, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				break
			}
			if cell := core.CleanCell(record[i]); cell != "" {
				row[col.Key] = core.String(cell)
			}
		}
		rows = append(rows, row)
	}

	label := opts.Label
	if label == "" {
		label = opts.Key
	}
	return core.Dataset{
		Key:     opts.Key,
		Group:   opts.Group,
		Label:   label,
		IDKey:   opts.IDKey,
		Columns: columns,
		Rows:    rows,
	}, nil
}

func columnsFromHeader(header []string) ([]core.Column, error) {
	columns := make([]core.Column, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		label := core.CleanCell(h)
		key := columnKey(label)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		if label == "" {
			label = key
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: header repeats column %q", ErrInvalidCSV, key)
		}
		seen[key] = true

		columns[i] = core.Column{
			Key:        key,
			Label:      label,
			Sortable:   true,
			Filterable: true,
		}
	}
	return columns, nil
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// csvError tags reader failures as invalid CSV, except size-limit failures
// which keep their own identity.
func csvError(err error) error {
	if errors.Is(err, ErrFileTooLarge) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidCSV, err)
}
