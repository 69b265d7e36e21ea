package core

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort order applied on top of the comparator.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Comparator orders cell values. It owns a collator for locale-aware string
// ordering; the collator is stateful, so calls are serialized.
type Comparator struct {
	mu   sync.Mutex
	coll *collate.Collator
}

// NewComparator creates a comparator collating strings for the given locale.
// Case differences are ignored.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{
		coll: collate.New(tag, collate.IgnoreCase),
	}
}

// Compare returns -1, 0 or 1. Rules, in order:
//  1. Null sorts after every defined value.
//  2. Two numbers (or numeric strings) compare numerically.
//  3. Two date instants (or date strings) compare chronologically.
//  4. Anything else compares as case-insensitive collated strings.
func (c *Comparator) Compare(a, b Value) int {
	if a.IsNull() || b.IsNull() {
		return compareNulls(a, b)
	}

	if x, ok := ParseNumber(a); ok {
		if y, ok := ParseNumber(b); ok {
			return compareFloat(x, y)
		}
	}

	if x, ok := ParseDate(a); ok {
		if y, ok := ParseDate(b); ok {
			return x.Compare(y)
		}
	}

	return c.compareStrings(a.String(), b.String())
}

// CompareDirected applies dir by negating the result of Compare. Nulls stay
// last in both directions.
func (c *Comparator) CompareDirected(a, b Value, dir Direction) int {
	if a.IsNull() || b.IsNull() {
		return compareNulls(a, b)
	}
	r := c.Compare(a, b)
	if dir == Desc {
		return -r
	}
	return r
}

func (c *Comparator) compareStrings(x, y string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll.CompareString(x, y)
}

func compareNulls(a, b Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	default:
		return -1
	}
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
