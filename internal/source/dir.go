package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/JonMunkholm/gridview/internal/core"
)

// DirOptions controls LoadDir.
type DirOptions struct {
	MaxBytes int64        // Per-file size budget (see Options.MaxBytes)
	Logger   *slog.Logger // Default slog.Default()
}

// LoadDir registers every supported dataset file in dir (non-recursive) in
// the catalog, in file name order. Files with other extensions are ignored.
// A file that fails to load is logged and skipped; the number of datasets
// registered and the combined error are returned.
func LoadDir(dir string, c *core.Catalog, opts DirOptions) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read data dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var (
		loaded int
		errs   []error
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		format, err := FormatFromPath(path)
		if err != nil {
			continue
		}

		d, err := LoadFile(path, format, Options{MaxBytes: opts.MaxBytes})
		if err == nil {
			err = c.Register(d)
		}
		if err != nil {
			logger.Warn("skipping dataset file", "file", entry.Name(), "error", err)
			errs = append(errs, err)
			continue
		}

		loaded++
		logger.Info("loaded dataset", "file", entry.Name(), "key", d.Key, "rows", len(d.Rows))
	}
	return loaded, errors.Join(errs...)
}
