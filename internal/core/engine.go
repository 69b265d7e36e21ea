package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/text/language"
)

// Options configures an Engine.
type Options struct {
	// PageSize is the number of rows per page. Must be positive.
	PageSize int

	// MultiSelect allows more than one selected row.
	MultiSelect bool

	// SingleExpand collapses other rows whenever a row is expanded.
	SingleExpand bool

	// IDKey names the column holding explicit row identifiers. Rows without
	// a value there, or every row when IDKey is empty, are identified by
	// their position in the source.
	IDKey string

	// Locale drives string collation in the comparator (default English).
	Locale language.Tag

	// ParallelThreshold enables parallel filtering at this many rows.
	ParallelThreshold int

	// Host receives row actions. Optional.
	Host RowActionHost

	// Export controls RequestExport output.
	Export ExportOptions

	// Logger receives debug logs for every gesture (default slog.Default()).
	Logger *slog.Logger
}

// Engine maintains a consistent view over an in-memory row collection.
//
// Every gesture method updates the relevant state and recomputes the view
// before returning. Selection and expansion are tracked independently of
// the view and survive search, filter, sort and page changes.
//
// An Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	schema   Schema
	rows     []RowRef
	byID     map[RowID]int
	opts     Options
	pipeline Pipeline
	log      *slog.Logger

	query     Query
	result    Result
	selection *Selection
	expansion *Expansion
}

// New creates an engine over rows. It fails fast on an invalid page size,
// an empty or inconsistent schema, duplicate row ids or a bad export
// delimiter.
func New(columns []Column, rows []Row, opts Options) (*Engine, error) {
	if opts.PageSize <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPageSize, opts.PageSize)
	}
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}
	if err := opts.Export.Validate(); err != nil {
		return nil, err
	}
	refs, byID, err := buildRefs(rows, opts.IDKey)
	if err != nil {
		return nil, err
	}

	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		schema: schema,
		rows:   refs,
		byID:   byID,
		opts:   opts,
		pipeline: Pipeline{
			Comparator:        NewComparator(locale),
			ParallelThreshold: opts.ParallelThreshold,
		},
		log:       logger,
		selection: NewSelection(opts.MultiSelect),
		expansion: NewExpansion(),
	}
	e.resetQuery()
	e.recompute()
	return e, nil
}

// buildRefs assigns identities to rows.
func buildRefs(rows []Row, idKey string) ([]RowRef, map[RowID]int, error) {
	refs := make([]RowRef, len(rows))
	byID := make(map[RowID]int, len(rows))
	for i, row := range rows {
		if row == nil {
			row = Row{}
		}
		id := OrdinalID(i)
		if idKey != "" {
			if v := row.Get(idKey); !v.IsNull() {
				id = RowID(v.String())
			}
		}
		if _, dup := byID[id]; dup {
			return nil, nil, fmt.Errorf("%w: %s (row %d)", ErrDuplicateRowID, id, i)
		}
		byID[id] = i
		refs[i] = RowRef{ID: id, Index: i, Row: row}
	}
	return refs, byID, nil
}

func (e *Engine) resetQuery() {
	e.query = Query{
		Filters: FilterState{},
		Page:    PaginationState{PageIndex: 0, PageSize: e.opts.PageSize},
	}
}

func (e *Engine) recompute() {
	e.result = e.pipeline.Recompute(e.rows, e.schema, e.query)
	e.query.Page.PageIndex = e.result.PageIndex
}

// ----------------------------------------------------------------------------
// Gestures
// ----------------------------------------------------------------------------

// SetSearchTerm replaces the free-text search term.
func (e *Engine) SetSearchTerm(term string) {
	e.query.Search = term
	e.recompute()
	e.log.Debug("search changed", "term", term, "filtered", e.result.FilteredCount)
}

// ToggleColumnFilterValue adds value to, or removes it from, the accepted
// set for the column. Unknown column keys are ignored; the return value
// reports whether the gesture was applied.
func (e *Engine) ToggleColumnFilterValue(key, value string) bool {
	if !e.schema.Has(key) {
		e.log.Debug("filter ignored: unknown column", "column", key)
		return false
	}
	e.query.Filters.Toggle(key, value)
	e.recompute()
	e.log.Debug("filter toggled", "column", key, "value", value, "filtered", e.result.FilteredCount)
	return true
}

// ClearColumnFilter removes every accepted value for the column.
func (e *Engine) ClearColumnFilter(key string) {
	if _, ok := e.query.Filters[key]; !ok {
		return
	}
	delete(e.query.Filters, key)
	e.recompute()
}

// ClearFilters removes every column filter.
func (e *Engine) ClearFilters() {
	e.query.Filters = FilterState{}
	e.recompute()
}

// SetSort handles a click on a column header. Repeated calls on the same
// column cycle asc, desc, none; another column starts at asc. Unknown and
// non-sortable columns are ignored.
func (e *Engine) SetSort(key string) bool {
	col, ok := e.schema.Column(key)
	if !ok || !col.Sortable {
		e.log.Debug("sort ignored", "column", key)
		return false
	}

	s := e.query.Sort
	switch {
	case s.Column != key:
		s = SortState{Column: key, Direction: Asc}
	case s.Direction == Asc:
		s.Direction = Desc
	default:
		s = SortState{}
	}
	e.query.Sort = s
	e.recompute()
	e.log.Debug("sort changed", "column", s.Column, "direction", s.Direction)
	return true
}

// SetSortState sets the sort directly. An empty column clears the sort;
// unknown and non-sortable columns are ignored as in SetSort. Any direction
// other than Desc means Asc.
func (e *Engine) SetSortState(s SortState) bool {
	if s.Column != "" {
		col, ok := e.schema.Column(s.Column)
		if !ok || !col.Sortable {
			e.log.Debug("sort ignored", "column", s.Column)
			return false
		}
	}
	if s.Column == "" {
		s = SortState{}
	} else if s.Direction != Desc {
		s.Direction = Asc
	}
	e.query.Sort = s
	e.recompute()
	return true
}

// SetPage moves to the page at index, clamped to the available pages.
func (e *Engine) SetPage(index int) {
	e.query.Page.PageIndex = index
	e.recompute()
	e.log.Debug("page changed", "requested", index, "page", e.result.PageIndex)
}

// SetPageSize changes the number of rows per page.
func (e *Engine) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPageSize, size)
	}
	e.query.Page.PageSize = size
	e.recompute()
	return nil
}

// ToggleSelect flips the selection of the row with id. Ids outside the
// collection are ignored.
func (e *Engine) ToggleSelect(id RowID) bool {
	if _, ok := e.byID[id]; !ok {
		return false
	}
	e.selection.Toggle(id)
	e.log.Debug("selection toggled", "id", id, "selected", e.selection.IsSelected(id))
	return true
}

// ToggleSelectAll selects every row of the filtered set, across all pages,
// or clears the selection when all of them are already selected.
func (e *Engine) ToggleSelectAll() {
	e.selection.SelectAll(e.filteredIDs())
	e.log.Debug("select all toggled", "selected", e.selection.Len())
}

// ClearSelection deselects every row.
func (e *Engine) ClearSelection() { e.selection.Clear() }

// ToggleExpand flips the expanded state of the row with id. Ids outside the
// collection are ignored.
func (e *Engine) ToggleExpand(id RowID) bool {
	if _, ok := e.byID[id]; !ok {
		return false
	}
	if e.opts.SingleExpand {
		e.expansion.ToggleOnly(id)
	} else {
		e.expansion.Toggle(id)
	}
	return true
}

// CollapseAll collapses every expanded row.
func (e *Engine) CollapseAll() { e.expansion.CollapseAll() }

// SetRows replaces the row collection. Selected and expanded ids that no
// longer exist are pruned; query state is kept and the page re-clamped.
// On error the engine is left unchanged.
func (e *Engine) SetRows(rows []Row) error {
	refs, byID, err := buildRefs(rows, e.opts.IDKey)
	if err != nil {
		return err
	}
	e.rows, e.byID = refs, byID
	keep := func(id RowID) bool {
		_, ok := byID[id]
		return ok
	}
	e.selection.Prune(keep)
	e.expansion.Prune(keep)
	e.recompute()
	e.log.Debug("rows replaced", "rows", len(refs), "selected", e.selection.Len())
	return nil
}

// Reset restores the default query and clears selection and expansion.
func (e *Engine) Reset() {
	e.resetQuery()
	e.selection.Clear()
	e.expansion.CollapseAll()
	e.recompute()
}

// ----------------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------------

// ViewRow is one row of the rendered page.
type ViewRow struct {
	ID       RowID `json:"id"`
	Index    int   `json:"index"`
	Cells    Row   `json:"cells"`
	Selected bool  `json:"selected"`
	Expanded bool  `json:"expanded"`
}

// ViewState is everything a renderer needs after a recompute.
type ViewState struct {
	Columns             []Column            `json:"columns"`
	Rows                []ViewRow           `json:"rows"`
	TotalCount          int                 `json:"totalCount"`
	FilteredCount       int                 `json:"filteredCount"`
	PageCount           int                 `json:"pageCount"`
	PageIndex           int                 `json:"pageIndex"`
	PageSize            int                 `json:"pageSize"`
	Search              string              `json:"search"`
	Filters             map[string][]string `json:"filters"`
	Sort                SortState           `json:"sort"`
	MultiSelect         bool                `json:"multiSelect"`
	SelectedCount       int                 `json:"selectedCount"`
	HiddenSelected      int                 `json:"hiddenSelected"`
	AllFilteredSelected bool                `json:"allFilteredSelected"`
	ExpandedCount       int                 `json:"expandedCount"`
}

// View returns the current page and view metadata.
func (e *Engine) View() ViewState {
	rows := make([]ViewRow, len(e.result.Page))
	for i, ref := range e.result.Page {
		rows[i] = ViewRow{
			ID:       ref.ID,
			Index:    ref.Index,
			Cells:    ref.Row,
			Selected: e.selection.IsSelected(ref.ID),
			Expanded: e.expansion.IsExpanded(ref.ID),
		}
	}

	filters := make(map[string][]string, len(e.query.Filters))
	for key := range e.query.Filters {
		filters[key] = e.query.Filters.Values(key)
	}

	filteredIDs := e.filteredIDs()
	visible := make(map[RowID]struct{}, len(filteredIDs))
	for _, id := range filteredIDs {
		visible[id] = struct{}{}
	}
	hidden := 0
	for _, id := range e.selection.SelectedIDs() {
		if _, ok := visible[id]; !ok {
			hidden++
		}
	}

	return ViewState{
		Columns:             e.schema.Columns(),
		Rows:                rows,
		TotalCount:          len(e.rows),
		FilteredCount:       e.result.FilteredCount,
		PageCount:           e.result.PageCount,
		PageIndex:           e.result.PageIndex,
		PageSize:            e.query.Page.PageSize,
		Search:              e.query.Search,
		Filters:             filters,
		Sort:                e.query.Sort,
		MultiSelect:         e.selection.MultiSelect(),
		SelectedCount:       e.selection.Len(),
		HiddenSelected:      hidden,
		AllFilteredSelected: e.selection.AllSelected(filteredIDs),
		ExpandedCount:       e.expansion.Len(),
	}
}

// Columns returns the schema columns in order.
func (e *Engine) Columns() []Column { return e.schema.Columns() }

// Query returns a copy of the current query state.
func (e *Engine) Query() Query {
	q := e.query
	q.Filters = e.query.Filters.Clone()
	return q
}

// Page returns the rows of the current page.
func (e *Engine) Page() []RowRef { return slices.Clone(e.result.Page) }

// Filtered returns every visible row in display order, unpaginated.
func (e *Engine) Filtered() []RowRef { return slices.Clone(e.result.Filtered) }

// IsSelected reports whether the row with id is selected.
func (e *Engine) IsSelected(id RowID) bool { return e.selection.IsSelected(id) }

// SelectedIDs returns the selected ids, including rows hidden by the
// current search or filters.
func (e *Engine) SelectedIDs() []RowID { return e.selection.SelectedIDs() }

// SelectedRows returns the selected rows in selection order.
func (e *Engine) SelectedRows() []RowRef {
	ids := e.selection.SelectedIDs()
	out := make([]RowRef, 0, len(ids))
	for _, id := range ids {
		if i, ok := e.byID[id]; ok {
			out = append(out, e.rows[i])
		}
	}
	return out
}

// IsExpanded reports whether the row with id is expanded.
func (e *Engine) IsExpanded(id RowID) bool { return e.expansion.IsExpanded(id) }

// ExpandedIDs returns the expanded ids.
func (e *Engine) ExpandedIDs() []RowID { return e.expansion.ExpandedIDs() }

// FilterValues returns the distinct stringified values of a column across
// the whole collection, ordered by the comparator. Unknown columns yield nil.
func (e *Engine) FilterValues(key string) []string {
	if !e.schema.Has(key) {
		return nil
	}
	seen := make(map[string]struct{})
	var values []Value
	for _, ref := range e.rows {
		v := ref.Row.Get(key)
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, v)
	}
	slices.SortStableFunc(values, e.pipeline.Comparator.Compare)

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func (e *Engine) filteredIDs() []RowID {
	ids := make([]RowID, len(e.result.Filtered))
	for i, ref := range e.result.Filtered {
		ids[i] = ref.ID
	}
	return ids
}

// ----------------------------------------------------------------------------
// Export and row actions
// ----------------------------------------------------------------------------

// RequestExport serializes the filtered and sorted rows, ignoring
// pagination.
func (e *Engine) RequestExport() ([]byte, error) {
	return SerializeBytes(e.result.Filtered, e.schema.Columns(), e.opts.Export)
}

// ExportTo streams the same output as RequestExport to w.
func (e *Engine) ExportTo(w io.Writer) error {
	return Serialize(w, e.result.Filtered, e.schema.Columns(), e.opts.Export)
}

// Act routes a row action to the host with the row and its source index.
func (e *Engine) Act(ctx context.Context, action RowAction, id RowID) error {
	if _, err := ParseRowAction(string(action)); err != nil {
		return err
	}
	if e.opts.Host == nil {
		return ErrNoRowActionHost
	}
	i, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	ref := e.rows[i]
	e.log.Debug("row action", "action", action, "id", id, "index", ref.Index)
	if err := e.opts.Host.HandleRowAction(ctx, action, ref.Row, ref.Index); err != nil {
		return fmt.Errorf("row action %s on %s: %w", action, id, err)
	}
	return nil
}
