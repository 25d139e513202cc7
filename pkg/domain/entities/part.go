package entities

import "fmt"

// PartID represents a unique part identifier in the inventory store
type PartID int64

// Part represents a part record as held by the inventory store
type Part struct {
	ID          PartID
	Name        string
	Description string
	IsAssembly  bool
	Active      bool
}

// NewPart creates a validated Part
func NewPart(id PartID, name, description string, isAssembly bool) (*Part, error) {
	if id <= 0 {
		return nil, fmt.Errorf("part id must be positive, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("part name cannot be empty")
	}

	return &Part{
		ID:          id,
		Name:        name,
		Description: description,
		IsAssembly:  isAssembly,
		Active:      true,
	}, nil
}

// PartDetails is the snapshot of a part read during one resolution:
// its identity, whether it is an assembly and its current available stock.
type PartDetails struct {
	ID             PartID
	Name           string
	IsAssembly     bool
	AvailableStock Quantity
}
