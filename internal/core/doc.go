// Package core provides the tabular view engine.
//
// This package holds all view logic independent of any UI or transport
// layer. It can be driven by web handlers, CLI tools, or tests without
// modification, and performs no network or disk I/O of its own.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Value: a closed tagged union (null, string, number, bool, date) for cells.
//   - Comparator: nulls-last, numeric, chronological, then collated ordering.
//   - Predicates: free-text search and per-column multi-value filters.
//   - Pipeline: filter, stable sort, clamp, slice; a pure derivation.
//   - Selection and Expansion: id sets that survive every view change.
//   - Serialize: delimited-text export of the filtered, sorted rows.
//   - Engine: the gesture API tying the above together.
//   - Catalog: the named datasets a process serves.
//
// # Engine
//
// An [Engine] is created over a schema and rows and then driven by gestures:
//
//	eng, err := core.New(columns, rows, core.Options{PageSize: 25, MultiSelect: true})
//	if err != nil {
//	    return err
//	}
//	eng.SetSearchTerm("acme")
//	eng.ToggleColumnFilterValue("status", "open")
//	eng.SetSort("amount") // asc, then desc, then none
//	view := eng.View()
//
// Each gesture recomputes the page synchronously. Row identities come from
// [Options.IDKey] when set, otherwise from the row's position in the source.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CFG001-CFG005: Configuration errors (page size, schema, delimiter)
//   - ROW001-ROW003: Row action routing errors
//   - SRC001-SRC007: Dataset loading and view lookup errors
//   - DB001-DB003: Database errors while loading tables
//   - REQ001-REQ005: Request cancellation, timeouts, busy exports, view limit, bad bodies
package core
