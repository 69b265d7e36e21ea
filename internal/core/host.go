package core

import (
	"context"
	"fmt"
)

// RowAction names a side effect a host performs on one row.
type RowAction string

const (
	ActionEdit   RowAction = "edit"
	ActionDelete RowAction = "delete"
	ActionView   RowAction = "view"
	ActionSave   RowAction = "save"
)

// ParseRowAction validates an action name.
func ParseRowAction(s string) (RowAction, error) {
	switch a := RowAction(s); a {
	case ActionEdit, ActionDelete, ActionView, ActionSave:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRowAction, s)
	}
}

// RowActionHost performs row side effects on behalf of the engine.
// The engine only reports which row was acted on and where it sits in the
// source; it never mutates rows itself. index is the source ordinal.
type RowActionHost interface {
	HandleRowAction(ctx context.Context, action RowAction, row Row, index int) error
}

// HostFunc adapts a function to RowActionHost.
type HostFunc func(ctx context.Context, action RowAction, row Row, index int) error

// HandleRowAction calls f.
func (f HostFunc) HandleRowAction(ctx context.Context, action RowAction, row Row, index int) error {
	return f(ctx, action, row, index)
}
