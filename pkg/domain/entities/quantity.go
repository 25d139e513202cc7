package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity represents an exact decimal quantity. Requirements are accumulated
// without rounding; rounding happens only when an OrderLine is produced.
type Quantity = decimal.Decimal

// DisplayPlaces is the number of fractional digits kept in reported quantities
const DisplayPlaces int32 = 3

// Bounds on parsed quantities. Values outside them are rejected before they
// reach multiplication, rounding or output.
const (
	MaxIntegerDigits int32 = 15
	MaxScale         int32 = 12
	MaxDigits              = 30
)

// ZeroQuantity is the additive identity for requirement accumulation
var ZeroQuantity = decimal.Zero

// NewQuantity creates a whole-number Quantity
func NewQuantity(value int64) Quantity {
	return decimal.NewFromInt(value)
}

// ParseQuantity parses a decimal string such as "2", "0.25" or "1e3"
func ParseQuantity(s string) (Quantity, error) {
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if err := checkQuantityRange(q); err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return q, nil
}

func checkQuantityRange(q Quantity) error {
	if q.IsZero() {
		return nil
	}
	if q.NumDigits() > MaxDigits {
		return fmt.Errorf("more than %d significant digits", MaxDigits)
	}
	if q.Exponent() < -MaxScale {
		return fmt.Errorf("more than %d decimal places", MaxScale)
	}
	if int64(q.NumDigits())+int64(q.Exponent()) > int64(MaxIntegerDigits) {
		return fmt.Errorf("more than %d integer digits", MaxIntegerDigits)
	}
	return nil
}

// QuantityFromFloat converts a float (e.g. a JSON number) through its shortest
// decimal representation, so 0.1 becomes exactly 0.1.
func QuantityFromFloat(f float64) Quantity {
	return decimal.NewFromFloat(f)
}

// RoundForDisplay rounds a quantity to DisplayPlaces using half-even rounding
func RoundForDisplay(q Quantity) Quantity {
	return q.RoundBank(DisplayPlaces)
}
