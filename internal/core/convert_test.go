package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  Value
		want   float64
		wantOK bool
	}{
		// Valid: native and textual numbers
		{name: "number value", input: Number(12.5), want: 12.5, wantOK: true},
		{name: "integer string", input: String("123"), want: 123, wantOK: true},
		{name: "negative string", input: String("-456"), want: -456, wantOK: true},
		{name: "explicit plus", input: String("+7"), want: 7, wantOK: true},
		{name: "decimal string", input: String("123.45"), want: 123.45, wantOK: true},
		{name: "leading decimal point", input: String(".99"), want: 0.99, wantOK: true},
		{name: "trailing decimal point", input: String("99."), want: 99, wantOK: true},
		{name: "scientific notation", input: String("1.5e3"), want: 1500, wantOK: true},
		{name: "surrounding whitespace", input: String("  42  "), want: 42, wantOK: true},

		// Invalid
		{name: "null", input: Null(), wantOK: false},
		{name: "bool", input: Bool(true), wantOK: false},
		{name: "empty string", input: String(""), wantOK: false},
		{name: "not a number", input: String("n/a"), wantOK: false},
		{name: "currency is not plain", input: String("$1,234.56"), wantOK: false},
		{name: "thousands separators", input: String("1,234"), wantOK: false},
		{name: "trailing text", input: String("12abc"), wantOK: false},
		{name: "word infinity", input: String("Inf"), wantOK: false},
		{name: "word nan", input: String("NaN"), wantOK: false},
		{name: "hex literal", input: String("0x1F"), wantOK: false},
		{name: "overflow", input: String("1e400"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     Value
		wantOK    bool
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		// Valid: ISO and RFC 3339
		{name: "ISO date", input: String("2024-01-15"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "RFC 3339", input: String("2024-01-15T10:30:00Z"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "datetime without zone", input: String("2024-01-15 10:30:00"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "slashed ISO", input: String("2024/01/15"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},

		// Valid: US formats
		{name: "US full", input: String("01/15/2024"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "US short", input: String("1/5/2024"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 5},
		{name: "US two-digit year", input: String("1/5/24"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 5},

		// Valid: text month
		{name: "short month", input: String("Jan 15, 2024"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "long month", input: String("January 15, 2024"), wantOK: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},

		// Valid: native date
		{name: "date value", input: Date(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)), wantOK: true, wantYear: 2020, wantMonth: time.February, wantDay: 29},

		// Invalid
		{name: "null", input: Null(), wantOK: false},
		{name: "number", input: Number(20240115), wantOK: false},
		{name: "empty", input: String(""), wantOK: false},
		{name: "word", input: String("yesterday"), wantOK: false},
		{name: "bare integer", input: String("30"), wantOK: false},
		{name: "invalid month", input: String("2024-13-01"), wantOK: false},
		{name: "too long", input: String("2024-01-15 and a lot of trailing words here"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%v) = %v, want %d-%02d-%02d",
					tt.input, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	pivot := time.Now().Year() + TwoDigitYearPivot

	got, ok := ParseDate(String("1/1/99"))
	if !ok {
		t.Fatal("ParseDate(1/1/99) failed")
	}
	if got.Year() > pivot {
		t.Errorf("ParseDate(1/1/99) year = %d, want <= %d", got.Year(), pivot)
	}
	if got.Year() != 1999 {
		t.Errorf("ParseDate(1/1/99) year = %d, want 1999", got.Year())
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "whitespace", input: "  hello  ", want: "hello"},
		{name: "excel formula text", input: `="00123"`, want: "00123"},
		{name: "leading equals", input: "=SUM", want: "SUM"},
		{name: "lone equals kept", input: "=", want: "="},
		{name: "double quotes", input: `"quoted"`, want: "quoted"},
		{name: "single quotes", input: "'quoted'", want: "quoted"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
