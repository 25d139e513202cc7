package entities

import "fmt"

// FinalDataStatus tells whether final reporting data could be resolved
type FinalDataStatus int

const (
	Resolved FinalDataStatus = iota
	Unresolved
)

// String method for FinalDataStatus enum
func (s FinalDataStatus) String() string {
	switch s {
	case Resolved:
		return "Resolved"
	case Unresolved:
		return "Unresolved"
	default:
		return "Unknown"
	}
}

// FinalData is the name and stock reported for a base component.
// An Unresolved entry carries only its id and always reports zero stock.
type FinalData struct {
	PartID         PartID
	Status         FinalDataStatus
	Name           string
	AvailableStock Quantity
}

// ResolvedFinalData creates final data for a component found in the store
func ResolvedFinalData(id PartID, name string, availableStock Quantity) FinalData {
	return FinalData{
		PartID:         id,
		Status:         Resolved,
		Name:           name,
		AvailableStock: availableStock,
	}
}

// UnresolvedFinalData creates the placeholder for a component whose data could not be read
func UnresolvedFinalData(id PartID) FinalData {
	return FinalData{
		PartID:         id,
		Status:         Unresolved,
		AvailableStock: ZeroQuantity,
	}
}

// IsResolved reports whether the data came from the store
func (f FinalData) IsResolved() bool {
	return f.Status == Resolved
}

// DisplayName returns the name to report
func (f FinalData) DisplayName() string {
	if !f.IsResolved() {
		return fmt.Sprintf("Unknown (ID: %d)", f.PartID)
	}
	return f.Name
}

// Stock returns the stock to compare the requirement against
func (f FinalData) Stock() Quantity {
	if !f.IsResolved() {
		return ZeroQuantity
	}
	return f.AvailableStock
}

// OrderLine represents one base component that has to be ordered.
// All quantities are rounded to DisplayPlaces.
type OrderLine struct {
	PartID     PartID
	Name       string
	Required   Quantity
	InStock    Quantity
	ToOrder    Quantity
	Unresolved bool
}

// NewOrderLine computes the shortfall of a component. It returns false when
// stock covers the requirement (to-order <= 0). The shortfall is computed on
// the exact values and only the reported values are rounded.
func NewOrderLine(id PartID, required Quantity, data FinalData) (*OrderLine, bool) {
	inStock := data.Stock()
	toOrder := required.Sub(inStock)
	if !toOrder.IsPositive() {
		return nil, false
	}

	return &OrderLine{
		PartID:     id,
		Name:       data.DisplayName(),
		Required:   RoundForDisplay(required),
		InStock:    RoundForDisplay(inStock),
		ToOrder:    RoundForDisplay(toOrder),
		Unresolved: !data.IsResolved(),
	}, true
}
