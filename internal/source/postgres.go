package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/gridview/internal/core"
)

// DefaultMaxRows caps how many rows are read from one table.
const DefaultMaxRows = 50000

// Querier is the subset of *pgxpool.Pool the table loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TableOptions controls how a table becomes a dataset.
type TableOptions struct {
	Table   string // Table name, optionally schema-qualified: "public.orders"
	Key     string // Dataset key (default: the table name)
	Label   string
	IDKey   string // Column holding row ids, e.g. the primary key
	MaxRows int    // Row cap (default DefaultMaxRows)
}

// LoadPostgresTable reads up to MaxRows rows of a table into a dataset.
// Columns follow the table's column order; numeric columns are right
// aligned. The whole table is read with a single query, with no server-side
// filtering or ordering.
func LoadPostgresTable(ctx context.Context, q Querier, opts TableOptions) (core.Dataset, error) {
	if opts.Table == "" {
		return core.Dataset{}, errors.New("load table: empty table name")
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	ident := pgx.Identifier(strings.Split(opts.Table, "."))
	query := fmt.Sprintf("SELECT * FROM %s LIMIT $1", ident.Sanitize())

	rows, err := q.Query(ctx, query, maxRows)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("query %s: %w", opts.Table, err)
	}
	defer rows.Close()

	columns := columnsFromFields(rows.FieldDescriptions())

	var result []core.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return core.Dataset{}, fmt.Errorf("read row values: %w", err)
		}

		row := make(core.Row, len(columns))
		for i, col := range columns {
			if i < len(values) {
				if v := valueFromPg(values[i]); !v.IsNull() {
					row[col.Key] = v
				}
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return core.Dataset{}, fmt.Errorf("rows error: %w", err)
	}

	key := opts.Key
	if key == "" {
		key = columnKey(opts.Table)
	}
	label := opts.Label
	if label == "" {
		label = opts.Table
	}

	return core.Dataset{
		Key:     key,
		Group:   "postgres",
		Label:   label,
		IDKey:   opts.IDKey,
		Columns: columns,
		Rows:    result,
	}, nil
}

// LoadPostgresTables loads each table and registers it in the catalog.
// A failing table is logged and skipped; the combined error is returned.
func LoadPostgresTables(ctx context.Context, q Querier, c *core.Catalog, tables []string, maxRows int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	for _, table := range tables {
		table = strings.TrimSpace(table)
		if table == "" {
			continue
		}

		d, err := LoadPostgresTable(ctx, q, TableOptions{Table: table, MaxRows: maxRows})
		if err == nil {
			err = c.Register(d)
		}
		if err != nil {
			logger.Warn("skipping table", "table", table, "error", err)
			errs = append(errs, fmt.Errorf("table %s: %w", table, err))
			continue
		}
		logger.Info("loaded table", "table", table, "key", d.Key, "rows", len(d.Rows))
	}
	return errors.Join(errs...)
}

func columnsFromFields(fields []pgconn.FieldDescription) []core.Column {
	columns := make([]core.Column, len(fields))
	for i, fd := range fields {
		col := core.Column{
			Key:        fd.Name,
			Label:      labelFromName(fd.Name),
			Sortable:   true,
			Filterable: true,
			Align:      core.AlignLeft,
		}
		switch fd.DataTypeOID {
		case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID,
			pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
			col.Align = core.AlignRight
		case pgtype.BoolOID:
			col.Align = core.AlignCenter
		}
		columns[i] = col
	}
	return columns
}

// labelFromName turns a column name into a header: "order_total" -> "Order Total".
func labelFromName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// valueFromPg converts a value returned by pgx.Rows.Values to a cell.
func valueFromPg(v any) core.Value {
	switch val := v.(type) {
	case nil:
		return core.Null()

	case pgtype.Numeric:
		if !val.Valid {
			return core.Null()
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return core.Null()
		}
		return core.Number(f.Float64)

	case pgtype.Date:
		if !val.Valid {
			return core.Null()
		}
		return core.Date(val.Time)

	case pgtype.Timestamp:
		if !val.Valid {
			return core.Null()
		}
		return core.Date(val.Time)

	case pgtype.Timestamptz:
		if !val.Valid {
			return core.Null()
		}
		return core.Date(val.Time)

	case pgtype.Text:
		if !val.Valid {
			return core.Null()
		}
		return core.String(val.String)

	case pgtype.Bool:
		if !val.Valid {
			return core.Null()
		}
		return core.Bool(val.Bool)

	case pgtype.Interval:
		if !val.Valid {
			return core.Null()
		}
		d := time.Duration(val.Microseconds) * time.Microsecond
		return core.String(fmt.Sprintf("%dmon %dd %s", val.Months, val.Days, d))

	case [16]byte:
		return core.String(uuid.UUID(val).String())

	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return core.String(fmt.Sprintf("%v", val))
		}
		return core.String(string(data))

	default:
		return core.FromAny(v)
	}
}
