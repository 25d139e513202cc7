package entities

import (
	"testing"

	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

func TestTargetSet_LastValueWins(t *testing.T) {
	set := NewTargetSet()
	for _, tgt := range []Target{
		{PartID: 7, Quantity: NewQuantity(1)},
		{PartID: 3, Quantity: NewQuantity(2)},
		{PartID: 7, Quantity: NewQuantity(5)},
	} {
		if err := set.Add(tgt.PartID, tgt.Quantity); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if set.Len() != 2 {
		t.Fatalf("Expected 2 targets, got %d", set.Len())
	}

	targets := set.Targets()
	if targets[0].PartID != 7 || targets[1].PartID != 3 {
		t.Errorf("Expected first-occurrence order [7 3], got [%d %d]", targets[0].PartID, targets[1].PartID)
	}
	if !targets[0].Quantity.Equal(NewQuantity(5)) {
		t.Errorf("Expected last value 5 for part 7, got %s", targets[0].Quantity)
	}
}

func TestTargetSet_RejectsInvalid(t *testing.T) {
	testCases := []struct {
		name     string
		id       PartID
		quantity Quantity
	}{
		{"zero id", 0, NewQuantity(1)},
		{"negative id", -2, NewQuantity(1)},
		{"zero quantity", 4, NewQuantity(0)},
		{"negative quantity", 4, NewQuantity(-3)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := NewTargetSet()
			err := set.Add(tc.id, tc.quantity)
			if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
				t.Fatalf("Expected INVALID_INPUT, got %v", err)
			}
			if set.Len() != 0 {
				t.Error("Invalid target must not be recorded")
			}
		})
	}
}

func TestTargetSetFromMap_SortedByID(t *testing.T) {
	set, err := TargetSetFromMap(map[PartID]Quantity{
		30: NewQuantity(1),
		10: NewQuantity(2),
		20: NewQuantity(3),
	})
	if err != nil {
		t.Fatalf("TargetSetFromMap failed: %v", err)
	}

	targets := set.Targets()
	for i, want := range []PartID{10, 20, 30} {
		if targets[i].PartID != want {
			t.Errorf("targets[%d] = %d, want %d", i, targets[i].PartID, want)
		}
	}
}

func TestTargetSet_NilIsEmpty(t *testing.T) {
	var set *TargetSet
	if set.Len() != 0 || set.Targets() != nil {
		t.Error("Expected nil target set to behave as empty")
	}
}
