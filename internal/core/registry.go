package core

import (
	"fmt"
	"sort"
	"sync"
)

// Dataset is a named row collection with its schema.
type Dataset struct {
	Key     string   // Unique identifier: "customers"
	Group   string   // Data source: "csv", "yaml", "postgres"
	Label   string   // Display name: "Customers"
	IDKey   string   // Column holding explicit row ids, if any
	Columns []Column // Schema in display order
	Rows    []Row
}

// DatasetInfo is the row-free summary of a dataset.
type DatasetInfo struct {
	Key      string   `json:"key"`
	Group    string   `json:"group"`
	Label    string   `json:"label"`
	IDKey    string   `json:"idKey,omitempty"`
	Columns  []Column `json:"columns"`
	RowCount int      `json:"rowCount"`
}

// Info summarizes the dataset.
func (d Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Key:      d.Key,
		Group:    d.Group,
		Label:    d.Label,
		IDKey:    d.IDKey,
		Columns:  d.Columns,
		RowCount: len(d.Rows),
	}
}

// Catalog holds the datasets a process serves. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{datasets: make(map[string]Dataset)}
}

// Register adds a dataset.
// Returns ErrDatasetExists if the key is taken.
func (c *Catalog) Register(d Dataset) error {
	if d.Key == "" {
		return fmt.Errorf("register dataset: empty key")
	}
	if _, err := NewSchema(d.Columns); err != nil {
		return fmt.Errorf("register dataset %s: %w", d.Key, err)
	}
	if d.Label == "" {
		d.Label = d.Key
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.datasets[d.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDatasetExists, d.Key)
	}
	c.datasets[d.Key] = d
	return nil
}

// Get returns a dataset by key.
// Returns false if not found.
func (c *Catalog) Get(key string) (Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.datasets[key]
	return d, ok
}

// All returns every dataset summary.
// Sorted by group then by key for consistent ordering.
func (c *Catalog) All() []DatasetInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]DatasetInfo, 0, len(c.datasets))
	for _, d := range c.datasets {
		result = append(result, d.Info())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// ByGroup returns dataset summaries for a specific group, sorted by key.
func (c *Catalog) ByGroup(group string) []DatasetInfo {
	var result []DatasetInfo
	for _, info := range c.All() {
		if info.Group == group {
			result = append(result, info)
		}
	}
	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func (c *Catalog) Groups() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	for _, d := range c.datasets {
		seen[d.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Len returns the number of datasets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}
