package repositories

import (
	"context"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// InventoryPort provides read access to the inventory store during a resolution.
// Every call may fail on its own. Absence is reported with an error carrying
// apperrors.ErrCodeNotFound; any other failure is a backend fault.
type InventoryPort interface {
	// GetPartDetails returns a part's identity, assembly flag and available stock.
	GetPartDetails(ctx context.Context, id entities.PartID) (*entities.PartDetails, error)

	// GetBOMLines returns the direct BOM lines of a part.
	// A part without lines yields an empty slice, not an error.
	GetBOMLines(ctx context.Context, id entities.PartID) ([]entities.BOMLine, error)

	// GetFinalData batch-reads name and available stock for base components.
	// Every requested id gets an entry; ids that could not be read are Unresolved.
	GetFinalData(ctx context.Context, ids []entities.PartID) (map[entities.PartID]entities.FinalData, error)
}

// InventoryLoader loads store records, used to seed in-memory stores
type InventoryLoader interface {
	LoadParts(parts []*entities.Part) error
	LoadBOMLines(lines []*entities.BOMLine) error
	LoadStock(records []*entities.StockRecord) error
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}
