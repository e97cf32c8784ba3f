package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

// XLSXParser parses Excel workbooks. Only the first sheet is read.
type XLSXParser struct{}

// Extensions returns the file extensions this parser handles.
func (p *XLSXParser) Extensions() []string { return []string{"xlsx", "xlsm"} }

// Parse reads the first sheet of a workbook, treating the first row as
// headers. Cell values come back formatted, so dates keep whatever
// display format the spreadsheet used.
func (p *XLSXParser) Parse(path string) ([]string, []model.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return headers, toRows(headers, records[1:]), nil
}
