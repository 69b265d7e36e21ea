package core

import "errors"

// Configuration errors are returned when an engine, schema or export is set
// up incorrectly. They never leave an existing engine in a modified state.
var (
	ErrInvalidPageSize  = errors.New("invalid page size: must be positive")
	ErrNoColumns        = errors.New("missing column schema")
	ErrEmptyColumnKey   = errors.New("empty column key")
	ErrDuplicateColumn  = errors.New("duplicate column key")
	ErrDuplicateRowID   = errors.New("duplicate row id")
	ErrInvalidDelimiter = errors.New("invalid export delimiter")
)

// Row action errors.
var (
	ErrRowNotFound      = errors.New("row not found")
	ErrNoRowActionHost  = errors.New("no row action host configured")
	ErrUnknownRowAction = errors.New("unknown row action")
)

// Catalog errors.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrDatasetExists   = errors.New("dataset already registered")
)
