package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// InventoryRepository provides an in-memory inventory store: parts, BOM lines
// indexed by parent and stock records indexed by part.
type InventoryRepository struct {
	mu           sync.RWMutex
	parts        []entities.Part
	partsMap     map[entities.PartID]int
	bomLines     []entities.BOMLine
	bomIndexes   map[entities.PartID][]int
	stock        []entities.StockRecord
	stockIndexes map[entities.PartID][]int
	now          func() time.Time
}

// NewInventoryRepository creates an in-memory inventory repository
func NewInventoryRepository(expectedParts, expectedBOMLines int) *InventoryRepository {
	return &InventoryRepository{
		parts:        make([]entities.Part, 0, expectedParts),
		partsMap:     make(map[entities.PartID]int, expectedParts),
		bomLines:     make([]entities.BOMLine, 0, expectedBOMLines),
		bomIndexes:   make(map[entities.PartID][]int, expectedParts),
		stock:        make([]entities.StockRecord, 0, expectedParts),
		stockIndexes: make(map[entities.PartID][]int, expectedParts),
		now:          time.Now,
	}
}

// Verify interface compliance
var _ repositories.InventoryPort = (*InventoryRepository)(nil)
var _ repositories.InventoryLoader = (*InventoryRepository)(nil)
var _ repositories.HealthChecker = (*InventoryRepository)(nil)

// SetClock overrides the instant used by the in-stock expiry check
func (r *InventoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// LoadParts loads parts into the repository
func (r *InventoryRepository) LoadParts(parts []*entities.Part) error {
	for _, part := range parts {
		r.AddPart(*part)
	}
	return nil
}

// LoadBOMLines loads BOM lines into the repository
func (r *InventoryRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.AddBOMLine(*line)
	}
	return nil
}

// LoadStock loads stock records into the repository
func (r *InventoryRepository) LoadStock(records []*entities.StockRecord) error {
	for _, record := range records {
		r.AddStockRecord(*record)
	}
	return nil
}

// AddPart adds or replaces a part
func (r *InventoryRepository) AddPart(part entities.Part) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.partsMap[part.ID]; exists {
		r.parts[index] = part
		return
	}
	r.partsMap[part.ID] = len(r.parts)
	r.parts = append(r.parts, part)
}

// AddBOMLine adds a BOM line to the repository
func (r *InventoryRepository) AddBOMLine(line entities.BOMLine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	r.bomIndexes[line.ParentID] = append(r.bomIndexes[line.ParentID], index)
}

// AddStockRecord adds a stock record to the repository
func (r *InventoryRepository) AddStockRecord(record entities.StockRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := len(r.stock)
	r.stock = append(r.stock, record)
	r.stockIndexes[record.PartID] = append(r.stockIndexes[record.PartID], index)
}

// GetPart returns the stored part record
func (r *InventoryRepository) GetPart(id entities.PartID) (*entities.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.partsMap[id]
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "part not found: %d", id)
	}
	part := r.parts[index]
	return &part, nil
}

// GetAllParts returns all parts in insertion order
func (r *InventoryRepository) GetAllParts() []entities.Part {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parts := make([]entities.Part, len(r.parts))
	copy(parts, r.parts)
	return parts
}

// GetAllBOMLines returns all BOM lines in insertion order
func (r *InventoryRepository) GetAllBOMLines() []entities.BOMLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]entities.BOMLine, len(r.bomLines))
	copy(lines, r.bomLines)
	return lines
}

// GetPartDetails returns a part's assembly flag, name and available stock
func (r *InventoryRepository) GetPartDetails(ctx context.Context, id entities.PartID) (*entities.PartDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.partsMap[id]
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "part not found: %d", id)
	}
	part := r.parts[index]

	return &entities.PartDetails{
		ID:             part.ID,
		Name:           part.Name,
		IsAssembly:     part.IsAssembly,
		AvailableStock: r.availableStockLocked(id),
	}, nil
}

// GetBOMLines returns the direct BOM lines of a part
func (r *InventoryRepository) GetBOMLines(ctx context.Context, id entities.PartID) ([]entities.BOMLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes, exists := r.bomIndexes[id]
	if !exists {
		return []entities.BOMLine{}, nil
	}

	lines := make([]entities.BOMLine, 0, len(indexes))
	for _, index := range indexes {
		lines = append(lines, r.bomLines[index])
	}
	return lines, nil
}

// GetFinalData returns name and available stock for each requested part
func (r *InventoryRepository) GetFinalData(ctx context.Context, ids []entities.PartID) (map[entities.PartID]entities.FinalData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[entities.PartID]entities.FinalData, len(ids))
	for _, id := range ids {
		index, exists := r.partsMap[id]
		if !exists {
			result[id] = entities.UnresolvedFinalData(id)
			continue
		}
		result[id] = entities.ResolvedFinalData(id, r.parts[index].Name, r.availableStockLocked(id))
	}
	return result, nil
}

// Ping always succeeds for the in-memory store
func (r *InventoryRepository) Ping(ctx context.Context) error {
	return nil
}

// availableStockLocked sums available stock; callers must hold the read lock
func (r *InventoryRepository) availableStockLocked(id entities.PartID) entities.Quantity {
	indexes := r.stockIndexes[id]
	records := make([]entities.StockRecord, 0, len(indexes))
	for _, index := range indexes {
		records = append(records, r.stock[index])
	}
	return entities.AvailableStock(records, r.now())
}
