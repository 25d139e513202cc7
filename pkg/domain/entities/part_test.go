package entities

import "testing"

func TestPart_Validation(t *testing.T) {
	part, err := NewPart(12, "Resistor 10k", "0603", false)
	if err != nil {
		t.Fatalf("Expected valid part creation to succeed: %v", err)
	}
	if !part.Active {
		t.Error("Expected new part to be active")
	}

	if _, err := NewPart(0, "X", "", false); err == nil || err.Error() != "part id must be positive, got 0" {
		t.Errorf("Expected id validation error, got %v", err)
	}
	if _, err := NewPart(3, "", "", true); err == nil || err.Error() != "part name cannot be empty" {
		t.Errorf("Expected name validation error, got %v", err)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2", "2", false},
		{"0.5", "0.5", false},
		{"1e2", "100", false},
		{"abc", "", true},
		{"", "", true},
		{"999999999999999", "999999999999999", false},
		{"0.000000000001", "0.000000000001", false},
		{"1e14", "100000000000000", false},
		{"1e15", "", true},
		{"1e3000000", "", true},
		{"1e-13", "", true},
		{"1e-3000000", "", true},
		{"0.0000000000001", "", true},
		{"1234567890123456", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseQuantity(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundForDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"14", "14"},
		{"0.1234", "0.123"},
		{"0.1235", "0.124"},
		{"0.1245", "0.124"},
		{"2.0005", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, _ := ParseQuantity(tt.input)
			if got := RoundForDisplay(q); got.String() != tt.want {
				t.Errorf("RoundForDisplay(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuantityFromFloat_ExactDecimal(t *testing.T) {
	sum := ZeroQuantity
	for i := 0; i < 10; i++ {
		sum = sum.Add(QuantityFromFloat(0.1))
	}
	if !sum.Equal(NewQuantity(1)) {
		t.Errorf("Expected ten additions of 0.1 to equal exactly 1, got %s", sum)
	}
}
