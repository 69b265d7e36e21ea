package core

import (
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// DefaultParallelThreshold is the row count at which filtering is split
// across goroutines.
const DefaultParallelThreshold = 10000

// Result is the derived view produced by Recompute.
type Result struct {
	Page          []RowRef // rows on the current page, in display order
	Filtered      []RowRef // every visible row, sorted, unpaginated
	FilteredCount int
	PageCount     int
	PageIndex     int // clamped page index actually used
}

// Pipeline composes filtering, sorting and pagination.
type Pipeline struct {
	Comparator *Comparator

	// ParallelThreshold enables chunked parallel filtering when the source
	// holds at least this many rows. Zero or negative disables it.
	ParallelThreshold int
}

// Recompute derives the visible page. The order is fixed: filter, stable
// sort, clamp the page index, slice. It does not modify its inputs.
// A non-positive page size yields a single page holding every visible row.
func (p Pipeline) Recompute(rows []RowRef, schema Schema, q Query) Result {
	filtered := p.filter(rows, schema, q)

	if q.Sort.Active() && schema.Has(q.Sort.Column) {
		cmp := p.Comparator
		if cmp == nil {
			cmp = NewComparator(language.English)
		}
		key, dir := q.Sort.Column, q.Sort.Direction
		slices.SortStableFunc(filtered, func(a, b RowRef) int {
			return cmp.CompareDirected(a.Row.Get(key), b.Row.Get(key), dir)
		})
	}

	pageSize := q.Page.PageSize
	if pageSize <= 0 {
		pageSize = len(filtered)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	pageCount := (len(filtered) + pageSize - 1) / pageSize
	pageIndex := clampPage(q.Page.PageIndex, pageCount)

	start := pageIndex * pageSize
	end := min(start+pageSize, len(filtered))
	if start > end {
		start = end
	}

	return Result{
		Page:          filtered[start:end:end],
		Filtered:      filtered,
		FilteredCount: len(filtered),
		PageCount:     pageCount,
		PageIndex:     pageIndex,
	}
}

// clampPage bounds index to [0, max(0, pageCount-1)].
func clampPage(index, pageCount int) int {
	if index >= pageCount {
		index = pageCount - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

func (p Pipeline) filter(rows []RowRef, schema Schema, q Query) []RowRef {
	pred := newPredicate(schema, q.Search, q.Filters)

	if p.ParallelThreshold <= 0 || len(rows) < p.ParallelThreshold {
		out := make([]RowRef, 0, len(rows))
		for _, ref := range rows {
			if pred.match(ref.Row) {
				out = append(out, ref)
			}
		}
		return out
	}

	// Each worker marks a disjoint range; reassembly keeps source order.
	keep := make([]bool, len(rows))
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(rows) + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < len(rows); start += chunk {
		lo, hi := start, min(start+chunk, len(rows))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				keep[i] = pred.match(rows[i].Row)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]RowRef, 0, len(rows))
	for i, ok := range keep {
		if ok {
			out = append(out, rows[i])
		}
	}
	return out
}
