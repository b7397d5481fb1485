// Package metadata looks up ground-truth records for known test invoices,
// keyed by original filename. The metadata file is external and maintained
// by hand, so it is re-read on every lookup rather than cached.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one free-form ground-truth entry. The "file" key carries the
// invoice filename it belongs to.
type Record map[string]any

// Store reads ground-truth records from a JSON or YAML file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file. An empty path yields a
// store that never finds anything.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Lookup returns the record whose "file" entry matches the filename, or nil
// when the metadata file or the record does not exist.
func (s *Store) Lookup(filename string) (Record, error) {
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata file %q: %w", s.path, err)
	}

	var records []Record
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse metadata file %q: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse metadata file %q: %w", s.path, err)
		}
	}

	for _, rec := range records {
		if file, ok := rec["file"].(string); ok && file == filename {
			return rec, nil
		}
	}
	return nil, nil
}
