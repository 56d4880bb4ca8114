// Package export renders structured results into the requested output
// format. JSON is a passthrough of the value; CSV and the paginated document
// form require tabular data.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"business-analytics-server/internal/analytics/domain"
)

// Format keys accepted on a request.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for a format key outside the known set.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", domain.ErrValidation)

// Dataset is a named table: column headers plus string-rendered rows.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Tabular is implemented by values that can flatten themselves into a
// Dataset for CSV and document rendering.
type Tabular interface {
	Dataset() Dataset
}

// pageSize is the number of data rows per page in the paginated document form.
const pageSize = 40

// Render serializes v in the given format. Empty format defaults to JSON.
// CSV and the paginated document form require v to implement Tabular.
func Render(v any, f Format) (string, error) {
	switch f {
	case "", FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	case FormatCSV:
		t, ok := v.(Tabular)
		if !ok {
			return "", fmt.Errorf("%w: csv requires tabular data", domain.ErrValidation)
		}
		return renderCSV(t.Dataset())
	case FormatPDF:
		t, ok := v.(Tabular)
		if !ok {
			return "", fmt.Errorf("%w: pdf requires tabular data", domain.ErrValidation)
		}
		return renderDocument(t.Dataset()), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
}

func renderCSV(ds Dataset) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ds.Columns); err != nil {
		return "", err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderDocument produces the paginated plain-text document used for the
// "pdf" format key. True PDF binary output stays with an external collaborator.
func renderDocument(ds Dataset) string {
	var b strings.Builder
	totalPages := (len(ds.Rows) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	widths := columnWidths(ds)
	for page := 0; page < totalPages; page++ {
		fmt.Fprintf(&b, "%s (page %d of %d)\n", ds.Name, page+1, totalPages)
		b.WriteString(formatRow(ds.Columns, widths))
		b.WriteString(strings.Repeat("-", rowWidth(widths)) + "\n")
		start := page * pageSize
		end := start + pageSize
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}
		for _, row := range ds.Rows[start:end] {
			b.WriteString(formatRow(row, widths))
		}
		if page < totalPages-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func columnWidths(ds Dataset) []int {
	widths := make([]int, len(ds.Columns))
	for i, c := range ds.Columns {
		widths[i] = len(c)
	}
	for _, row := range ds.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func rowWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	return total
}

func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		w := len(cell)
		if i < len(widths) {
			w = widths[i]
		}
		fmt.Fprintf(&b, "%-*s  ", w, cell)
	}
	return strings.TrimRight(b.String(), " ") + "\n"
}
