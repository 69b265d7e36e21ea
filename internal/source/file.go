package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/gridview/internal/core"
)

// Format names a dataset file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options controls how a file becomes a dataset.
type Options struct {
	Key       string // Dataset key (default: file name without extension)
	Label     string // Display name (default: the key)
	Group     string // Catalog group (default: the format name)
	IDKey     string // Column holding row ids, if any
	Delimiter rune   // Field separator for delimited text (default ',' or tab for TSV)
	MaxBytes  int64  // Size budget (default DefaultMaxFileSize, negative disables)
}

func (o Options) maxBytes() int64 {
	switch {
	case o.MaxBytes < 0:
		return 0
	case o.MaxBytes == 0:
		return DefaultMaxFileSize
	default:
		return o.MaxBytes
	}
}

func (o Options) delimiter(f Format) rune {
	if o.Delimiter != 0 {
		return o.Delimiter
	}
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// withDefaults fills the key, label and group from the file path.
func (o Options) withDefaults(path string, f Format) Options {
	if o.Key == "" {
		o.Key = KeyFromPath(path)
	}
	if o.Label == "" {
		o.Label = o.Key
	}
	if o.Group == "" {
		o.Group = string(f)
	}
	return o
}

// KeyFromPath derives a dataset key from a file name:
// "data/Sales Report.csv" -> "sales_report".
func KeyFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return columnKey(base)
}

// LoadFile reads a dataset file. format may be empty to infer it from the
// extension.
func LoadFile(path string, format Format, opts Options) (core.Dataset, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return core.Dataset{}, err
		}
		format = f
	}

	file, err := os.Open(path)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatCSV, FormatTSV:
		opts = opts.withDefaults(path, format)
		if opts.Delimiter == 0 {
			opts.Delimiter = opts.delimiter(format)
		}
		d, err := LoadCSV(file, opts)
		if err != nil {
			return core.Dataset{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return d, nil
	case FormatYAML:
		d, err := LoadYAML(file, opts)
		if err != nil {
			return core.Dataset{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		// The document's own key wins over the file name.
		if d.Key == "" {
			d.Key = KeyFromPath(path)
		}
		if d.Label == "" {
			d.Label = d.Key
		}
		return d, nil
	default:
		return core.Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// columnKey normalizes a header or file name into a key:
// "Transaction ID" -> "transaction_id".
func columnKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}
