package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

func TestParseTargetFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  entities.PartID
		wantQty string
		wantErr bool
	}{
		{"integer", "100=2", 100, "2", false},
		{"fractional", "205=0.125", 205, "0.125", false},
		{"spaces", " 7 = 3 ", 7, "3", false},
		{"missing separator", "100", 0, "", true},
		{"bad id", "abc=1", 0, "", true},
		{"bad quantity", "1=many", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, qty, err := parseTargetFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("id = %d, want %d", id, tt.wantID)
			}
			want, _ := entities.ParseQuantity(tt.wantQty)
			if !qty.Equal(want) {
				t.Errorf("quantity = %s, want %s", qty, want)
			}
		})
	}
}

func TestBuildTargetSet_CSVFileAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "targets.csv")
	content := "part_id,quantity\n100,2\n130,1\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write targets: %v", err)
	}

	set, err := buildTargetSet([]string{"100=5", "120=1"}, file)
	if err != nil {
		t.Fatalf("buildTargetSet failed: %v", err)
	}

	targets := set.Targets()
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}
	wantOrder := []entities.PartID{100, 130, 120}
	for i, id := range wantOrder {
		if targets[i].PartID != id {
			t.Errorf("target %d = %d, want %d", i, targets[i].PartID, id)
		}
	}
	if !targets[0].Quantity.Equal(entities.NewQuantity(5)) {
		t.Errorf("flag should override file quantity, got %s", targets[0].Quantity)
	}
}

func TestBuildTargetSet_XLSX(t *testing.T) {
	file := filepath.Join(t.TempDir(), "targets.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", 110)
	f.SetCellValue("Sheet1", "B1", 4)
	f.SetCellValue("Sheet1", "A2", 205)
	f.SetCellValue("Sheet1", "B2", "0.5")
	if err := f.SaveAs(file); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	f.Close()

	set, err := buildTargetSet(nil, file)
	if err != nil {
		t.Fatalf("buildTargetSet failed: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 targets, got %d", set.Len())
	}
	qty, ok := set.Quantity(205)
	if !ok || qty.String() != "0.5" {
		t.Errorf("expected 0.5 for part 205, got %s", qty)
	}
}

func TestBuildTargetSet_Errors(t *testing.T) {
	dir := t.TempDir()
	badRow := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(badRow, []byte("1,2\n3,x\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name  string
		flags []string
		file  string
	}{
		{"zero quantity", []string{"1=0"}, ""},
		{"negative id", []string{"-1=2"}, ""},
		{"bad file row", nil, badRow},
		{"unsupported extension", nil, filepath.Join(dir, "targets.txt")},
		{"missing file", nil, filepath.Join(dir, "missing.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildTargetSet(tt.flags, tt.file); err == nil {
				t.Error("expected error")
			}
		})
	}
}
