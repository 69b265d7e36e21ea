package core

import (
	"fmt"
	"sort"
	"strconv"
)

// Align is the horizontal alignment hint a renderer applies to a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes one column of the schema. It carries no behavior.
type Column struct {
	Key        string `json:"key" yaml:"key"`
	Label      string `json:"label" yaml:"label"`
	Sortable   bool   `json:"sortable" yaml:"sortable"`
	Filterable bool   `json:"filterable" yaml:"filterable"`
	Width      int    `json:"width,omitempty" yaml:"width"`
	Align      Align  `json:"align,omitempty" yaml:"align"`
}

// Header returns the label used in header rows, falling back to the key.
func (c Column) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Schema is an ordered set of columns with unique keys.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema validates columns and builds a schema.
// Returns ErrNoColumns for an empty list and ErrDuplicateColumn for repeated keys.
func NewSchema(columns []Column) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, ErrNoColumns
	}

	s := Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Key == "" {
			return Schema{}, fmt.Errorf("column %d: %w", i, ErrEmptyColumnKey)
		}
		if _, dup := s.index[col.Key]; dup {
			return Schema{}, fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Key)
		}
		if col.Align == "" {
			col.Align = AlignLeft
		}
		s.columns[i] = col
		s.index[col.Key] = i
	}
	return s, nil
}

// Columns returns a copy of the columns in schema order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Column looks up a column by key.
func (s Schema) Column(key string) (Column, bool) {
	i, ok := s.index[key]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Has reports whether key names a column.
func (s Schema) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// searchable returns the columns searched by the free-text term: every
// filterable column, or all columns when none is marked filterable.
func (s Schema) searchable() []Column {
	var out []Column
	for _, col := range s.columns {
		if col.Filterable {
			out = append(out, col)
		}
	}
	if len(out) == 0 {
		return s.columns
	}
	return out
}

// RowID is the stable identity of a row.
type RowID string

// OrdinalID returns the identity assigned to the row at position i when no
// explicit identifier is available.
func OrdinalID(i int) RowID {
	return RowID("#" + strconv.Itoa(i))
}

// RowRef is a row together with its identity and its position in the source.
type RowRef struct {
	ID    RowID
	Index int
	Row   Row
}

// FilterState maps a column key to the set of accepted stringified values.
// A key that is absent, or maps to an empty set, imposes no constraint.
type FilterState map[string]map[string]struct{}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, set := range f {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out[k] = cp
	}
	return out
}

// Values returns the accepted values for key in sorted order.
func (f FilterState) Values(key string) []string {
	set := f[key]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Toggle flips membership of value in the set for key.
func (f FilterState) Toggle(key, value string) {
	set, ok := f[key]
	if !ok {
		set = make(map[string]struct{})
		f[key] = set
	}
	if _, on := set[value]; on {
		delete(set, value)
		if len(set) == 0 {
			delete(f, key)
		}
		return
	}
	set[value] = struct{}{}
}

// SortState selects the sort column. An empty Column means insertion order.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Active reports whether a sort column is set.
func (s SortState) Active() bool { return s.Column != "" }

// PaginationState addresses one page of the filtered set.
type PaginationState struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// Query bundles the inputs of a view recomputation.
type Query struct {
	Search  string
	Filters FilterState
	Sort    SortState
	Page    PaginationState
}
