package entities

import "fmt"

// BOMLine represents a single line in an assembly's Bill of Materials
type BOMLine struct {
	ParentID    PartID
	SubPartID   PartID
	QuantityPer Quantity // quantity of the sub-part per one parent unit
	Reference   string
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(parentID, subPartID PartID, quantityPer Quantity, reference string) (*BOMLine, error) {
	if parentID <= 0 {
		return nil, fmt.Errorf("parent part id must be positive, got %d", parentID)
	}
	if subPartID <= 0 {
		return nil, fmt.Errorf("sub-part id must be positive, got %d", subPartID)
	}
	if parentID == subPartID {
		return nil, fmt.Errorf("parent and sub-part cannot be the same: %d", parentID)
	}
	if !quantityPer.IsPositive() {
		return nil, fmt.Errorf("quantity per must be positive, got %s", quantityPer)
	}

	return &BOMLine{
		ParentID:    parentID,
		SubPartID:   subPartID,
		QuantityPer: quantityPer,
		Reference:   reference,
	}, nil
}
