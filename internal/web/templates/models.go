package templates

import (
	"encoding/json"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/gridview/internal/core"
)

// DatasetGroup is one section of the dashboard.
type DatasetGroup struct {
	Name     string
	Datasets []core.DatasetInfo
}

// ViewPageParams carries one rendered page of a view.
type ViewPageParams struct {
	ViewID  string
	Dataset core.DatasetInfo
	State   core.ViewState

	// Options holds the values offered for each filterable column.
	Options map[string][]string
}

// MaxFilterOptions caps the values listed in a filter dropdown.
const MaxFilterOptions = 100

// rowActions are offered on expanded rows.
var rowActions = []core.RowAction{core.ActionView, core.ActionEdit, core.ActionDelete}

// FilterChip is one accepted filter value.
type FilterChip struct {
	Column string
	Label  string
	Value  string
}

// activeFilters lists the accepted filter values in column order.
func activeFilters(state core.ViewState) []FilterChip {
	var chips []FilterChip
	for _, col := range state.Columns {
		for _, value := range state.Filters[col.Key] {
			chips = append(chips, FilterChip{Column: col.Key, Label: col.Label, Value: value})
		}
	}
	return chips
}

// filterColumns returns the filterable columns that have options.
func filterColumns(columns []core.Column, options map[string][]string) []core.Column {
	var out []core.Column
	for _, col := range columns {
		if _, ok := options[col.Key]; ok && col.Filterable {
			out = append(out, col)
		}
	}
	return out
}

func limitOptions(values []string) []string {
	if len(values) > MaxFilterOptions {
		return values[:MaxFilterOptions]
	}
	return values
}

func optionLabel(value string) string {
	if value == "" {
		return "(empty)"
	}
	return value
}

// SortMarker is the arrow shown next to the sorted column's label.
func SortMarker(s core.SortState, key string) string {
	if s.Column != key {
		return ""
	}
	if s.Direction == core.Desc {
		return " ↓"
	}
	return " ↑"
}

func expandLabel(expanded bool) string {
	if expanded {
		return "−"
	}
	return "+"
}

func openURL(key string) templ.SafeURL {
	return templ.SafeURL("/datasets/" + url.PathEscape(key) + "/open")
}

func exportURL(viewID string) templ.SafeURL {
	return templ.SafeURL("/api/views/" + url.PathEscape(viewID) + "/export")
}

// actionGesture is the API path of a row action, relative to the view.
func actionGesture(id core.RowID, action core.RowAction) string {
	return "rows/" + url.PathEscape(string(id)) + "/" + string(action)
}

func rowBody(id core.RowID) string {
	return jsonBody(map[string]any{"id": id})
}

func jsonBody(v map[string]any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
