package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const itemsCSV = `SKU,Name,Color,Price
A1,Cherry,red,12
A2,apple,red,3
A3,Banana,yellow,7
A4,Lime,green,1
A5,"Date, dried",brown,
`

func writeItems(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte(itemsCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	path := writeItems(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "everything",
			args: []string{path},
			want: itemsCSV,
		},
		{
			name: "filter and sort",
			args: []string{"--filter", "color=red", "--filter", "color=green", "--sort", "price:desc", path},
			want: "SKU,Name,Color,Price\nA1,Cherry,red,12\nA2,apple,red,3\nA4,Lime,green,1\n",
		},
		{
			name: "search is case insensitive",
			args: []string{"-s", "DRIED", "--file", path},
			want: "SKU,Name,Color,Price\nA5,\"Date, dried\",brown,\n",
		},
		{
			name: "sort ascending keeps blanks last",
			args: []string{"--sort", "price", path},
			want: "SKU,Name,Color,Price\nA4,Lime,green,1\nA2,apple,red,3\nA3,Banana,yellow,7\nA1,Cherry,red,12\nA5,\"Date, dried\",brown,\n",
		},
		{
			name: "output delimiter and crlf",
			args: []string{"-d", ";", "--crlf", "--filter", "color=yellow", path},
			want: "SKU;Name;Color;Price\r\nA3;Banana;yellow;7\r\n",
		},
		{
			name: "no matches writes the header",
			args: []string{"-s", "zzz", path},
			want: "SKU,Name,Color,Price\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err != nil {
				t.Fatalf("run() error = %v (stderr: %s)", err, stderr.String())
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("output =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRun_OutFile(t *testing.T) {
	path := writeItems(t)
	out := filepath.Join(t.TempDir(), "out.csv")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-o", out, "--filter", "sku=A2", path}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "SKU,Name,Color,Price\nA2,apple,red,3\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeItems(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no file", args: nil, wantErr: "no dataset file"},
		{name: "extra argument", args: []string{path, "other"}, wantErr: "unexpected argument"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.csv")}, wantErr: "open dataset"},
		{name: "bad format", args: []string{"--format", "xml", path}, wantErr: "xml"},
		{name: "filter without value", args: []string{"--filter", "color", path}, wantErr: "want column=value"},
		{name: "filter unknown column", args: []string{"--filter", "size=L", path}, wantErr: `unknown column "size"`},
		{name: "sort unknown column", args: []string{"--sort", "weight", path}, wantErr: `unsortable column "weight"`},
		{name: "sort bad direction", args: []string{"--sort", "price:up", path}, wantErr: "asc or desc"},
		{name: "long delimiter", args: []string{"-d", "::", path}, wantErr: "single character"},
		{name: "quote delimiter", args: []string{"-d", `"`, path}, wantErr: "delimiter"},
		{name: "unknown flag", args: []string{"--bogus", path}, wantErr: "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("run() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRun_SortRespectsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yaml")
	doc := `key: people
columns:
  - {key: name, label: Name, sortable: true}
  - {key: notes, label: Notes}
rows:
  - {name: Bob, notes: b}
  - {name: Amy, notes: a}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"--sort", "notes", path}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), `unsortable column "notes"`) {
		t.Errorf("run(--sort notes) error = %v, want unsortable column", err)
	}

	stdout.Reset()
	if err := run([]string{"--sort", "name", path}, &stdout, &stderr); err != nil {
		t.Fatalf("run(--sort name) error = %v", err)
	}
	if want := "Name,Notes\nAmy,a\nBob,b\n"; stdout.String() != want {
		t.Errorf("output = %q, want %q", stdout.String(), want)
	}
}

func TestRun_OutFileWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	path := writeItems(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-o", "/dev/full", path}, &stdout, &stderr)
	if err == nil {
		t.Fatal("run() error = nil, want write failure")
	}
}

func TestRun_OutFileCreateFailure(t *testing.T) {
	path := writeItems(t)
	out := filepath.Join(t.TempDir(), "missing", "out.csv")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-o", out, path}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "create output") {
		t.Errorf("run() error = %v, want create output failure", err)
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--help"}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Usage:", "--filter", "--sort"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestSingleRune(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: ",", want: ','},
		{in: ";", want: ';'},
		{in: `\t`, want: '\t'},
		{in: "§", want: '§'},
		{in: "", wantErr: true},
		{in: "ab", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := singleRune("--delimiter", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("singleRune(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("singleRune(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
