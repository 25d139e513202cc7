package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

func mustQty(t *testing.T, s string) entities.Quantity {
	t.Helper()
	q, err := entities.ParseQuantity(s)
	if err != nil {
		t.Fatalf("ParseQuantity(%q) failed: %v", s, err)
	}
	return q
}

func sampleResult(t *testing.T) *dto.ResolutionResult {
	t.Helper()
	return &dto.ResolutionResult{
		RunID: "run-1",
		OrderLines: []entities.OrderLine{
			{PartID: 3, Name: "C", Required: mustQty(t, "14"), InStock: mustQty(t, "5"), ToOrder: mustQty(t, "9")},
			{PartID: 9, Name: "Unknown (ID: 9)", Required: mustQty(t, "0.125"), InStock: entities.ZeroQuantity, ToOrder: mustQty(t, "0.125"), Unresolved: true},
		},
		Diagnostics: []dto.Diagnostic{
			{PartID: 7, Stage: dto.StagePartDetails, Code: apperrors.ErrCodeNotFound, Message: "NOT_FOUND: part not found: 7"},
		},
		Stats: dto.ResolutionStats{Targets: 1, Components: 2, OrderLines: 2},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	path, err := Generate(sampleResult(t), Config{Format: FormatText, Writer: &buf})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected no file for text output, got %s", path)
	}

	out := buf.String()
	for _, want := range []string{"Order lines: 2", "14.0", "9.0", "0.125", "Unknown (ID: 9)", "part 7 at part_details: NOT_FOUND"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in text output:\n%s", want, out)
		}
	}
}

func TestGenerate_TextNothingToOrder(t *testing.T) {
	var buf bytes.Buffer
	result := &dto.ResolutionResult{OrderLines: []entities.OrderLine{}}
	if _, err := Generate(result, Config{Format: FormatText, Writer: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Nothing to order") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestGenerate_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Generate(sampleResult(t), Config{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var decoded struct {
		Success bool `json:"success"`
		Results []struct {
			PK       int64   `json:"pk"`
			Name     string  `json:"name"`
			Required float64 `json:"required"`
			InStock  float64 `json:"in_stock"`
			ToOrder  float64 `json:"to_order"`
		} `json:"results"`
		Diagnostics []dto.Diagnostic `json:"diagnostics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !decoded.Success || len(decoded.Results) != 2 {
		t.Fatalf("unexpected decoded result %+v", decoded)
	}
	if decoded.Results[0].ToOrder != 9 || decoded.Results[1].Required != 0.125 {
		t.Errorf("unexpected quantities %+v", decoded.Results)
	}
	if len(decoded.Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic, got %d", len(decoded.Diagnostics))
	}
}

func TestGenerate_CSVFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := Generate(sampleResult(t), Config{Format: FormatCSV, OutputDir: dir})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if path != filepath.Join(dir, "order_lines.csv") {
		t.Errorf("unexpected path %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "pk,name,required,in_stock,to_order,unresolved" {
		t.Errorf("unexpected header %v", records[0])
	}
	if strings.Join(records[2], ",") != "9,Unknown (ID: 9),0.125,0,0.125,true" {
		t.Errorf("unexpected row %v", records[2])
	}
}

func TestGenerate_XLSX(t *testing.T) {
	if _, err := Generate(sampleResult(t), Config{Format: FormatXLSX}); err == nil {
		t.Error("expected error without output directory")
	}

	dir := t.TempDir()
	targets := []entities.Target{{PartID: 1, Quantity: mustQty(t, "2")}}
	path, err := Generate(sampleResult(t), Config{Format: FormatXLSX, OutputDir: dir, Targets: targets})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	name, err := f.GetCellValue(ordersSheet, "B2")
	if err != nil || name != "C" {
		t.Errorf("expected C in B2, got %q (%v)", name, err)
	}
	toOrder, err := f.GetCellValue(ordersSheet, "E2")
	if err != nil || toOrder != "9" {
		t.Errorf("expected 9 in E2, got %q (%v)", toOrder, err)
	}
	target, err := f.GetCellValue(targetsSheet, "A2")
	if err != nil || target != "1" {
		t.Errorf("expected target 1 in Targets!A2, got %q (%v)", target, err)
	}
}

func TestGenerate_HTML(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Generate(sampleResult(t), Config{Format: FormatHTML, Writer: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<td>C</td>", `class="unresolved"`, "run-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in HTML output", want)
		}
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	if _, err := Generate(sampleResult(t), Config{Format: "svg"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14", "14.0"},
		{"0", "0.0"},
		{"14.000", "14.0"},
		{"0.425", "0.425"},
		{"2.5", "2.5"},
	}
	for _, tt := range tests {
		if got := formatQuantity(mustQty(t, tt.in)); got != tt.want {
			t.Errorf("formatQuantity(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
