package core

// idSet is an insertion-ordered set of row identities.
type idSet struct {
	order []RowID
	index map[RowID]struct{}
}

func newIDSet() idSet {
	return idSet{index: make(map[RowID]struct{})}
}

func (s *idSet) has(id RowID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) add(id RowID) {
	if s.has(id) {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *idSet) remove(id RowID) {
	if !s.has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *idSet) clear() {
	s.order = nil
	s.index = make(map[RowID]struct{})
}

func (s *idSet) len() int { return len(s.order) }

func (s *idSet) ids() []RowID {
	out := make([]RowID, len(s.order))
	copy(out, s.order)
	return out
}

// prune drops every id for which keep returns false.
func (s *idSet) prune(keep func(RowID) bool) {
	kept := s.order[:0]
	for _, id := range s.order {
		if keep(id) {
			kept = append(kept, id)
		} else {
			delete(s.index, id)
		}
	}
	s.order = kept
}

// Selection tracks selected rows independently of the current view.
// When multi-select is off the set never holds more than one id.
type Selection struct {
	multi bool
	set   idSet
}

// NewSelection creates an empty selection.
func NewSelection(multiSelect bool) *Selection {
	return &Selection{multi: multiSelect, set: newIDSet()}
}

// MultiSelect reports whether more than one row may be selected.
func (s *Selection) MultiSelect() bool { return s.multi }

// Toggle flips the selected state of id. In single-select mode selecting a
// row replaces the previous selection, and toggling the sole selected row
// clears it.
func (s *Selection) Toggle(id RowID) {
	if s.set.has(id) {
		s.set.remove(id)
		return
	}
	if !s.multi {
		s.set.clear()
	}
	s.set.add(id)
}

// SelectAll toggles between "every matching id selected" and "nothing
// selected". When some matching id is unselected it adds all of them to the
// current selection; otherwise it clears the selection. Returns true when the
// call selected rows.
//
// An empty matching set, or single-select mode, leaves the selection as is.
func (s *Selection) SelectAll(matching []RowID) bool {
	if !s.multi || len(matching) == 0 {
		return false
	}
	if s.AllSelected(matching) {
		s.set.clear()
		return false
	}
	for _, id := range matching {
		s.set.add(id)
	}
	return true
}

// AllSelected reports whether every id in matching is selected.
// It is false for an empty list.
func (s *Selection) AllSelected(matching []RowID) bool {
	if len(matching) == 0 {
		return false
	}
	for _, id := range matching {
		if !s.set.has(id) {
			return false
		}
	}
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() { s.set.clear() }

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id RowID) bool { return s.set.has(id) }

// SelectedIDs returns the selected ids in the order they were selected.
func (s *Selection) SelectedIDs() []RowID { return s.set.ids() }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return s.set.len() }

// Prune drops selected ids for which keep returns false.
func (s *Selection) Prune(keep func(RowID) bool) { s.set.prune(keep) }
