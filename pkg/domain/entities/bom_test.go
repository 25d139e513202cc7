package entities

import "testing"

func TestBOMLine_Validation(t *testing.T) {
	validBOM, err := NewBOMLine(100, 200, NewQuantity(2), "R1")
	if err != nil {
		t.Fatalf("Expected valid BOM creation to succeed: %v", err)
	}
	if !validBOM.QuantityPer.Equal(NewQuantity(2)) {
		t.Errorf("Expected quantity per 2, got %s", validBOM.QuantityPer)
	}

	testCases := []struct {
		name        string
		parentID    PartID
		subPartID   PartID
		quantityPer Quantity
		expectError string
	}{
		{"zero parent", 0, 200, NewQuantity(1), "parent part id must be positive, got 0"},
		{"negative sub-part", 100, -4, NewQuantity(1), "sub-part id must be positive, got -4"},
		{"parent equals child", 100, 100, NewQuantity(1), "parent and sub-part cannot be the same: 100"},
		{"zero quantity", 100, 200, NewQuantity(0), "quantity per must be positive, got 0"},
		{"negative quantity", 100, 200, NewQuantity(-1), "quantity per must be positive, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMLine(tc.parentID, tc.subPartID, tc.quantityPer, "")
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestBOMLine_FractionalQuantity(t *testing.T) {
	qty, err := ParseQuantity("0.125")
	if err != nil {
		t.Fatalf("ParseQuantity failed: %v", err)
	}

	line, err := NewBOMLine(1, 2, qty, "")
	if err != nil {
		t.Fatalf("Expected fractional quantity to be accepted: %v", err)
	}
	if line.QuantityPer.String() != "0.125" {
		t.Errorf("Expected 0.125, got %s", line.QuantityPer)
	}
}
