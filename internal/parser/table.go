package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Table holds one parsed tabular export. Headers are sanitized to
// lowercase_underscore form; RawHeaders keeps the original labels.
type Table struct {
	Headers    []string
	RawHeaders []string
	Rows       [][]string

	index map[string]int
}

// Parse reads an uploaded export into a Table, dispatching on the file
// extension.
func Parse(fileName string, payload []byte) (Table, error) {
	if len(payload) == 0 {
		return Table{}, errors.New("file is empty")
	}
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv", ".txt":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (Table, error) {
	decoded, err := DecodeText(payload)
	if err != nil {
		return Table{}, err
	}

	csvReader := csv.NewReader(bytes.NewReader(decoded))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return buildTable(records)
}

func parseExcel(payload []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return buildTable(rows)
}

func buildTable(records [][]string) (Table, error) {
	var headerRow []string
	var dataRows [][]string
	for _, row := range records {
		if rowEmpty(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}
	if headerRow == nil {
		return Table{}, errors.New("header row could not be detected")
	}

	headers := sanitizeHeaders(headerRow)
	rawHeaders := make([]string, len(headerRow))
	for i, value := range headerRow {
		rawHeaders[i] = strings.TrimSpace(value)
	}
	for i := range dataRows {
		dataRows[i] = padRow(dataRows[i], len(headers))
	}

	index := make(map[string]int, len(headers))
	for i, name := range headers {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	return Table{
		Headers:    headers,
		RawHeaders: rawHeaders,
		Rows:       dataRows,
		index:      index,
	}, nil
}

// HasColumn reports whether the table carries the sanitized column name.
func (t Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Get returns the trimmed cell at (row, column name). Missing columns and
// short rows read as the empty string, which doubles as the null fill for
// textual columns.
func (t Table) Get(row int, name string) string {
	idx, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	line := t.Rows[row]
	if idx >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[idx])
}

// sanitizeHeaders maps raw header labels like "Tab Name" or "Order #" to
// stable lowercase keys ("tab_name", "order").
func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		var b strings.Builder
		for _, r := range strings.ToLower(strings.TrimSpace(value)) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
			default:
				b.WriteRune('_')
			}
		}
		name := strings.Trim(collapseUnderscores(b.String()), "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}
	return headers
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
