package core

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestComparatorCompare(t *testing.T) {
	cmp := NewComparator(language.English)
	jan := Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	feb := Date(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		// Nulls last
		{name: "null after string", a: Null(), b: String("a"), want: 1},
		{name: "string before null", a: String("a"), b: Null(), want: -1},
		{name: "null after number", a: Null(), b: Number(-1), want: 1},
		{name: "null equals null", a: Null(), b: Null(), want: 0},

		// Numeric
		{name: "numbers", a: Number(2), b: Number(10), want: -1},
		{name: "numeric strings compare numerically", a: String("10"), b: String("9"), want: 1},
		{name: "number and numeric string", a: Number(25), b: String("25.0"), want: 0},
		{name: "negative numbers", a: String("-3"), b: String("-20"), want: 1},

		// Chronological
		{name: "dates", a: jan, b: feb, want: -1},
		{name: "date strings", a: String("2024-02-01"), b: String("2023-12-31"), want: 1},
		{name: "mixed date layouts", a: String("01/15/2024"), b: String("2024-01-14"), want: 1},
		{name: "date and date string", a: feb, b: String("2024-02-01"), want: 0},

		// Strings
		{name: "case insensitive equal", a: String("apple"), b: String("APPLE"), want: 0},
		{name: "alphabetical", a: String("apple"), b: String("Banana"), want: -1},
		{name: "number against text falls back to string", a: Number(30), b: String("n/a"), want: -1},
		{name: "bools as strings", a: Bool(false), b: Bool(true), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cmp.Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComparatorCompareDirected(t *testing.T) {
	cmp := NewComparator(language.English)

	tests := []struct {
		name string
		a, b Value
		dir  Direction
		want int
	}{
		{name: "asc keeps order", a: Number(1), b: Number(2), dir: Asc, want: -1},
		{name: "desc negates", a: Number(1), b: Number(2), dir: Desc, want: 1},
		{name: "desc equal stays equal", a: String("x"), b: String("X"), dir: Desc, want: 0},
		{name: "null last in asc", a: Null(), b: Number(1), dir: Asc, want: 1},
		{name: "null last in desc", a: Null(), b: Number(1), dir: Desc, want: 1},
		{name: "defined first in desc", a: Number(1), b: Null(), dir: Desc, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cmp.CompareDirected(tt.a, tt.b, tt.dir); got != tt.want {
				t.Errorf("CompareDirected(%v, %v, %s) = %d, want %d", tt.a, tt.b, tt.dir, got, tt.want)
			}
		})
	}
}

func TestComparatorAntisymmetric(t *testing.T) {
	cmp := NewComparator(language.English)
	values := []Value{
		Null(), String("b"), String("A"), Number(3), String("10"),
		String("2024-01-01"), Bool(true), String("n/a"), String(""),
	}

	for _, a := range values {
		for _, b := range values {
			if x, y := cmp.Compare(a, b), cmp.Compare(b, a); x != -y {
				t.Errorf("Compare(%v, %v) = %d but Compare(%v, %v) = %d", a, b, x, b, a, y)
			}
		}
	}
}

func TestComparatorLocale(t *testing.T) {
	// Swedish collates "ö" after "z"; English treats it as a variant of "o".
	sv := NewComparator(language.Swedish)
	en := NewComparator(language.English)

	if got := sv.Compare(String("öl"), String("zebra")); got != 1 {
		t.Errorf("swedish Compare(öl, zebra) = %d, want 1", got)
	}
	if got := en.Compare(String("öl"), String("zebra")); got != -1 {
		t.Errorf("english Compare(öl, zebra) = %d, want -1", got)
	}
}
