package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"business-analytics-server/internal/analytics/domain"
)

type testTable struct {
	Label string `json:"label"`
}

func (t testTable) Dataset() Dataset {
	return Dataset{
		Name:    "test",
		Columns: []string{"id", "name"},
		Rows:    [][]string{{"1", "alpha"}, {"2", "beta, with comma"}},
	}
}

func TestRender_JSONPassthrough(t *testing.T) {
	out, err := Render(map[string]any{"a": 1}, FormatJSON)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["a"] != float64(1) {
		t.Errorf("decoded[a] = %v, want 1", decoded["a"])
	}
}

func TestRender_EmptyFormatDefaultsToJSON(t *testing.T) {
	out, err := Render([]int{1, 2}, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "[\n  1,\n  2\n]" {
		t.Errorf("output = %q, want indented JSON array", out)
	}
}

func TestRender_CSV(t *testing.T) {
	out, err := Render(testTable{}, FormatCSV)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want 3: %q", len(lines), out)
	}
	if lines[0] != "id,name" {
		t.Errorf("header = %q, want %q", lines[0], "id,name")
	}
	if !strings.Contains(lines[2], `"beta, with comma"`) {
		t.Errorf("comma-containing cell should be quoted, got %q", lines[2])
	}
}

func TestRender_CSVRequiresTabular(t *testing.T) {
	_, err := Render(map[string]any{"a": 1}, FormatCSV)
	if err == nil {
		t.Fatal("Render csv of non-tabular value should fail")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, should classify as validation", err)
	}
}

func TestRender_Document(t *testing.T) {
	out, err := Render(testTable{}, FormatPDF)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "page 1 of 1") {
		t.Errorf("document should carry a page header, got %q", out)
	}
	if !strings.Contains(out, "alpha") {
		t.Errorf("document should contain row data, got %q", out)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(testTable{}, "xml")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}
