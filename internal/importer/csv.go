package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

// CSVParser parses comma-separated exports. Rows may have ragged field
// counts; short rows are padded against the header.
type CSVParser struct{}

// Extensions returns the file extensions this parser handles.
func (p *CSVParser) Extensions() []string { return []string{"csv"} }

// Parse reads a CSV file, treating the first row as headers.
func (p *CSVParser) Parse(path string) ([]string, []model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}

	headers := records[0]
	if len(headers) > 0 {
		// Excel writes a UTF-8 BOM in front of the first header.
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return headers, toRows(headers, records[1:]), nil
}
