package source

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/gridview/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "csv", want: FormatCSV},
		{input: ".CSV", want: FormatCSV},
		{input: "tsv", want: FormatTSV},
		{input: "tab", want: FormatTSV},
		{input: ".yml", want: FormatYAML},
		{input: "yaml", want: FormatYAML},
		{input: ".xlsx", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestKeyFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "data/Sales Report.csv", want: "sales_report"},
		{path: "people.yaml", want: "people"},
		{path: "/tmp/x/Q1 Orders.tsv", want: "q1_orders"},
		{path: "noext", want: "noext"},
	}

	for _, tt := range tests {
		if got := KeyFromPath(tt.path); got != tt.want {
			t.Errorf("KeyFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv defaults from file name", func(t *testing.T) {
		path := writeFile(t, dir, "Sales Report.csv", "Region,Total\nNorth,10\n")
		d, err := LoadFile(path, "", Options{})
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if d.Key != "sales_report" || d.Label != "sales_report" || d.Group != "csv" {
			t.Errorf("dataset = %q/%q/%q", d.Key, d.Label, d.Group)
		}
	})

	t.Run("tsv uses tab", func(t *testing.T) {
		path := writeFile(t, dir, "scores.tsv", "name\tscore\nBob, Jr.\t7\n")
		d, err := LoadFile(path, "", Options{})
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if got := d.Rows[0].Get("name").String(); got != "Bob, Jr." {
			t.Errorf("name = %q, want Bob, Jr.", got)
		}
		if d.Group != "tsv" {
			t.Errorf("Group = %q, want tsv", d.Group)
		}
	})

	t.Run("explicit format overrides extension", func(t *testing.T) {
		path := writeFile(t, dir, "export.txt", "a,b\n1,2\n")
		d, err := LoadFile(path, FormatCSV, Options{Key: "txt"})
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if d.Key != "txt" || len(d.Rows) != 1 {
			t.Errorf("dataset = %q with %d rows", d.Key, len(d.Rows))
		}
	})

	t.Run("yaml key wins over file name", func(t *testing.T) {
		path := writeFile(t, dir, "file-name.yaml", peopleYAML)
		d, err := LoadFile(path, "", Options{})
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if d.Key != "people" {
			t.Errorf("Key = %q, want people", d.Key)
		}
	})

	t.Run("yaml without key uses file name", func(t *testing.T) {
		path := writeFile(t, dir, "Tags.yml", "columns:\n  - {key: tag}\nrows:\n  - {tag: go}\n")
		d, err := LoadFile(path, "", Options{})
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if d.Key != "tags" || d.Label != "tags" {
			t.Errorf("dataset = %q/%q, want tags/tags", d.Key, d.Label)
		}
	})

	t.Run("errors name the file", func(t *testing.T) {
		path := writeFile(t, dir, "broken.yaml", "key: [")
		_, err := LoadFile(path, "", Options{})
		if !errors.Is(err, ErrInvalidDocument) || !strings.Contains(err.Error(), "broken.yaml") {
			t.Errorf("LoadFile() error = %v, want invalid document naming broken.yaml", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "data.json"), "", Options{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("LoadFile() error = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.csv"), "", Options{})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("LoadFile() error = %v, want not exist", err)
		}
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_people.yaml", peopleYAML)
	writeFile(t, dir, "a_orders.csv", "id,total\n1,10\n2,20\n")
	writeFile(t, dir, "c_bad.csv", "")
	writeFile(t, dir, "notes.md", "# not a dataset")
	if err := os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := core.NewCatalog()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := LoadDir(dir, c, DirOptions{Logger: logger})
	if n != 2 {
		t.Errorf("LoadDir() loaded %d, want 2", n)
	}
	if !errors.Is(err, ErrInvalidCSV) {
		t.Errorf("LoadDir() error = %v, want the bad csv reported", err)
	}

	var keys []string
	for _, d := range c.All() {
		keys = append(keys, d.Key)
	}
	if strings.Join(keys, ",") != "a_orders,people" {
		t.Errorf("catalog keys = %v, want [a_orders people]", keys)
	}
}

func TestLoadDir_DuplicateKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "id,name\n1,Bob\n")
	writeFile(t, dir, "people.yaml", peopleYAML)

	c := core.NewCatalog()
	n, err := LoadDir(dir, c, DirOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if n != 1 || !errors.Is(err, core.ErrDatasetExists) {
		t.Errorf("LoadDir() = %d, %v; want 1 and a duplicate error", n, err)
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "absent"), core.NewCatalog(), DirOptions{}); err == nil {
		t.Error("LoadDir() on a missing directory succeeded")
	}
}
