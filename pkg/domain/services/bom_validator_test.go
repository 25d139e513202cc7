package services

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

func line(parent, child int64, ref string) entities.BOMLine {
	return entities.BOMLine{
		ParentID:    entities.PartID(parent),
		SubPartID:   entities.PartID(child),
		QuantityPer: entities.NewQuantity(1),
		Reference:   ref,
	}
}

func assembly(id int64) entities.Part {
	return entities.Part{ID: entities.PartID(id), Name: "Assembly", IsAssembly: true, Active: true}
}

func component(id int64) entities.Part {
	return entities.Part{ID: entities.PartID(id), Name: "Component", Active: true}
}

func TestBOMValidator_ValidData(t *testing.T) {
	parts := []entities.Part{assembly(1), assembly(2), component(3)}
	lines := []entities.BOMLine{line(1, 2, ""), line(1, 3, ""), line(2, 3, "")}

	result := NewBOMValidator().ValidateBOM(parts, lines)

	if !result.IsValid() {
		t.Errorf("expected valid BOM, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if result.HasCycles {
		t.Error("diamond reuse must not be reported as a cycle")
	}
}

func TestBOMValidator_DetectCycles(t *testing.T) {
	tests := []struct {
		name  string
		lines []entities.BOMLine
		want  [][]entities.PartID
	}{
		{
			name:  "two part cycle",
			lines: []entities.BOMLine{line(1, 2, ""), line(2, 1, "")},
			want:  [][]entities.PartID{{1, 2, 1}},
		},
		{
			name:  "three part cycle",
			lines: []entities.BOMLine{line(10, 11, ""), line(11, 12, ""), line(12, 10, "")},
			want:  [][]entities.PartID{{10, 11, 12, 10}},
		},
		{
			name:  "cycle below acyclic root",
			lines: []entities.BOMLine{line(1, 2, ""), line(2, 3, ""), line(3, 2, "")},
			want:  [][]entities.PartID{{2, 3, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parts []entities.Part
			seen := map[entities.PartID]bool{}
			for _, l := range tt.lines {
				for _, id := range []entities.PartID{l.ParentID, l.SubPartID} {
					if !seen[id] {
						seen[id] = true
						parts = append(parts, assembly(int64(id)))
					}
				}
			}

			result := NewBOMValidator().ValidateBOM(parts, tt.lines)

			if !result.HasCycles {
				t.Fatal("expected cycle to be detected")
			}
			if !reflect.DeepEqual(result.CyclePaths, tt.want) {
				t.Errorf("expected cycles %v, got %v", tt.want, result.CyclePaths)
			}
			if result.IsValid() {
				t.Error("expected cycle to be an error")
			}
			if !strings.Contains(result.Errors[0], "BOM cycle detected") {
				t.Errorf("unexpected error text %q", result.Errors[0])
			}
		})
	}
}

func TestBOMValidator_DuplicateLines(t *testing.T) {
	parts := []entities.Part{assembly(1), component(2)}
	lines := []entities.BOMLine{
		line(1, 2, "R1"),
		line(1, 2, "R1"),
		line(1, 2, "R2"),
	}

	result := NewBOMValidator().ValidateBOM(parts, lines)

	if len(result.DuplicateLines) != 1 {
		t.Errorf("expected 1 duplicate, got %d", len(result.DuplicateLines))
	}
	if !result.IsValid() {
		t.Errorf("duplicates should only warn, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestBOMValidator_DanglingLines(t *testing.T) {
	parts := []entities.Part{assembly(1), component(2)}
	lines := []entities.BOMLine{line(1, 2, ""), line(1, 99, ""), line(98, 2, "")}

	result := NewBOMValidator().ValidateBOM(parts, lines)

	if len(result.DanglingLines) != 2 {
		t.Fatalf("expected 2 dangling lines, got %d", len(result.DanglingLines))
	}
	if result.IsValid() {
		t.Error("expected dangling references to be errors")
	}
}

func TestBOMValidator_AssemblyFlags(t *testing.T) {
	parts := []entities.Part{assembly(1), component(2), component(3), assembly(4)}
	lines := []entities.BOMLine{line(1, 2, ""), line(2, 3, "")}

	result := NewBOMValidator().ValidateBOM(parts, lines)

	if !reflect.DeepEqual(result.BasePartsWithLines, []entities.PartID{2}) {
		t.Errorf("expected base part 2 flagged, got %v", result.BasePartsWithLines)
	}
	if !reflect.DeepEqual(result.EmptyAssemblies, []entities.PartID{4}) {
		t.Errorf("expected empty assembly 4 flagged, got %v", result.EmptyAssemblies)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", result.Warnings)
	}
}

func TestBOMValidator_PartUniqueness(t *testing.T) {
	parts := []entities.Part{component(1), component(2), component(1)}

	result := NewBOMValidator().ValidatePartUniqueness(parts)

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "[1]") {
		t.Errorf("expected duplicate id in message, got %q", result.Errors[0])
	}
}
