package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

// Parser reads a spreadsheet file into a header row plus raw rows. Cell
// values are passed through untouched; cleaning happens downstream.
type Parser interface {
	Parse(path string) ([]string, []model.RawRow, error)
	Extensions() []string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser under each of its extensions. Panics on a
// duplicate extension.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.parsers[key]; ok {
			panic("duplicate parser extension: " + key)
		}
		r.parsers[key] = p
	}
}

// Get returns the parser for a file extension (with or without the
// leading dot), or nil.
func (r *Registry) Get(ext string) Parser {
	return r.parsers[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// Load parses a file using the parser matching its extension.
func (r *Registry) Load(path string) ([]string, []model.RawRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	ext := filepath.Ext(path)
	p := r.Get(ext)
	if p == nil {
		return nil, nil, fmt.Errorf("unsupported file type %q (expected csv or xlsx)", ext)
	}
	return p.Parse(path)
}

// toRows pairs each data row with the header, padding or truncating rows
// that do not match the header width.
func toRows(headers []string, data [][]string) []model.RawRow {
	rows := make([]model.RawRow, 0, len(data))
	for _, cells := range data {
		row := make(model.RawRow, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
