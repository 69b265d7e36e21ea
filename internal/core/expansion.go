package core

// Expansion tracks which rows show their detail ("accordion") content.
// Any number of rows may be expanded at once.
type Expansion struct {
	set idSet
}

// NewExpansion creates a tracker with every row collapsed.
func NewExpansion() *Expansion {
	return &Expansion{set: newIDSet()}
}

// Toggle flips the expanded state of id.
func (e *Expansion) Toggle(id RowID) {
	if e.set.has(id) {
		e.set.remove(id)
		return
	}
	e.set.add(id)
}

// ToggleOnly expands id after collapsing every other row, or collapses id
// when it is already expanded. It gives single-open accordion behavior.
func (e *Expansion) ToggleOnly(id RowID) {
	if e.set.has(id) {
		e.set.remove(id)
		return
	}
	e.set.clear()
	e.set.add(id)
}

// IsExpanded reports whether id is expanded.
func (e *Expansion) IsExpanded(id RowID) bool { return e.set.has(id) }

// CollapseAll collapses every row.
func (e *Expansion) CollapseAll() { e.set.clear() }

// ExpandedIDs returns the expanded ids in the order they were expanded.
func (e *Expansion) ExpandedIDs() []RowID { return e.set.ids() }

// Len returns the number of expanded rows.
func (e *Expansion) Len() int { return e.set.len() }

// Prune drops expanded ids for which keep returns false.
func (e *Expansion) Prune(keep func(RowID) bool) { e.set.prune(keep) }
