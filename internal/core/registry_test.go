package core

import (
	"errors"
	"slices"
	"testing"
)

func TestCatalogRegister(t *testing.T) {
	c := NewCatalog()

	err := c.Register(Dataset{Key: "people", Group: "csv", Columns: peopleColumns(), Rows: peopleRows()})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	d, ok := c.Get("people")
	if !ok {
		t.Fatal("Get(people) not found")
	}
	if d.Label != "people" {
		t.Errorf("Label = %q, want key as default", d.Label)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) found a dataset")
	}
}

func TestCatalogRegister_Errors(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(Dataset{Key: "people", Columns: peopleColumns()}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		dataset Dataset
		wantErr error
	}{
		{name: "duplicate key", dataset: Dataset{Key: "people", Columns: peopleColumns()}, wantErr: ErrDatasetExists},
		{name: "no columns", dataset: Dataset{Key: "empty"}, wantErr: ErrNoColumns},
		{
			name:    "duplicate columns",
			dataset: Dataset{Key: "dup", Columns: []Column{{Key: "a"}, {Key: "a"}}},
			wantErr: ErrDuplicateColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Register(tt.dataset); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := c.Register(Dataset{Columns: peopleColumns()}); err == nil {
		t.Error("Register() with empty key succeeded")
	}
}

func TestCatalogListing(t *testing.T) {
	c := NewCatalog()
	for _, d := range []Dataset{
		{Key: "orders", Group: "postgres", Columns: peopleColumns()},
		{Key: "people", Group: "csv", Columns: peopleColumns(), Rows: peopleRows()},
		{Key: "accounts", Group: "postgres", Columns: peopleColumns()},
		{Key: "tags", Group: "yaml", Columns: peopleColumns()},
	} {
		if err := c.Register(d); err != nil {
			t.Fatalf("Register(%s) error = %v", d.Key, err)
		}
	}

	var keys []string
	for _, info := range c.All() {
		keys = append(keys, info.Key)
	}
	if !slices.Equal(keys, []string{"people", "accounts", "orders", "tags"}) {
		t.Errorf("All() keys = %v, want grouped then sorted", keys)
	}

	pg := c.ByGroup("postgres")
	if len(pg) != 2 || pg[0].Key != "accounts" || pg[1].Key != "orders" {
		t.Errorf("ByGroup(postgres) = %+v", pg)
	}

	if got := c.Groups(); !slices.Equal(got, []string{"csv", "postgres", "yaml"}) {
		t.Errorf("Groups() = %v", got)
	}

	if info := c.All()[0]; info.RowCount != 3 {
		t.Errorf("people RowCount = %d, want 3", info.RowCount)
	}
}
