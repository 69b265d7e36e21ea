package source

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/gridview/internal/core"
)

// Document is the YAML form of a dataset:
//
//	key: people
//	label: People
//	id_key: id
//	columns:
//	  - {key: id, label: ID, sortable: true}
//	  - {key: name, label: Name, sortable: true, filterable: true}
//	rows:
//	  - {id: 1, name: Bob}
//
// Scalars keep their YAML types: integers and floats become numbers, booleans
// stay booleans, unquoted timestamps become dates and everything else is a
// string.
type Document struct {
	Key     string           `yaml:"key"`
	Label   string           `yaml:"label"`
	Group   string           `yaml:"group"`
	IDKey   string           `yaml:"id_key"`
	Columns []core.Column    `yaml:"columns"`
	Rows    []map[string]any `yaml:"rows"`
}

// LoadYAML decodes a dataset document. Unknown top-level fields are
// rejected. Values in opts override the document's key, label, group and
// id column when set.
func LoadYAML(r io.Reader, opts Options) (core.Dataset, error) {
	text, _ := wrap(r, opts.maxBytes())

	dec := yaml.NewDecoder(text)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return core.Dataset{}, err
		}
		if err == io.EOF {
			return core.Dataset{}, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return core.Dataset{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if len(doc.Columns) == 0 {
		return core.Dataset{}, fmt.Errorf("%w: %w", ErrInvalidDocument, core.ErrNoColumns)
	}
	if _, err := core.NewSchema(doc.Columns); err != nil {
		return core.Dataset{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	d := core.Dataset{
		Key:     firstNonEmpty(opts.Key, doc.Key),
		Label:   firstNonEmpty(opts.Label, doc.Label),
		Group:   firstNonEmpty(opts.Group, doc.Group, string(FormatYAML)),
		IDKey:   firstNonEmpty(opts.IDKey, doc.IDKey),
		Columns: doc.Columns,
		Rows:    make([]core.Row, len(doc.Rows)),
	}
	if d.Label == "" {
		d.Label = d.Key
	}
	for i, m := range doc.Rows {
		d.Rows[i] = core.RowFromMap(m)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
