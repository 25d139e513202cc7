package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// inStockFilter selects the stock rows that count as available.
// Placeholders: in-stock statuses, as-of time.
const inStockFilter = `s.quantity > 0
	AND s.status IN ?
	AND s.consumed_by_id IS NULL
	AND s.customer_id IS NULL
	AND s.is_building = false
	AND (s.expiry_date IS NULL OR s.expiry_date > ?)`

// InventoryRepository reads parts, BOM items and stock from PostgreSQL
type InventoryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewInventoryRepository creates a repository on an open connection
func NewInventoryRepository(db *gorm.DB, logger *zap.Logger) *InventoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Verify interface compliance
var _ repositories.InventoryPort = (*InventoryRepository)(nil)
var _ repositories.InventoryLoader = (*InventoryRepository)(nil)
var _ repositories.HealthChecker = (*InventoryRepository)(nil)

// Migrate creates or updates the inventory tables
func (r *InventoryRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate inventory tables: %w", err)
	}
	return nil
}

// GetPartDetails returns a part's assembly flag, name and available stock
func (r *InventoryRepository) GetPartDetails(ctx context.Context, id entities.PartID) (*entities.PartDetails, error) {
	var part PartModel
	err := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&part).Error
	if err != nil {
		return nil, translateError(err, "part %d", id)
	}

	var result struct{ Total decimal.Decimal }
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(s.quantity) FILTER (WHERE `+inStockFilter+`), 0) AS total
		FROM stock_items s
		WHERE s.part_id = ?
	`, inStockStatusCodes(), r.now(), int64(id)).Scan(&result).Error
	if err != nil {
		return nil, translateError(err, "stock of part %d", id)
	}

	return &entities.PartDetails{
		ID:             id,
		Name:           part.Name,
		IsAssembly:     part.IsAssembly,
		AvailableStock: result.Total,
	}, nil
}

// GetBOMLines returns the direct BOM lines of a part
func (r *InventoryRepository) GetBOMLines(ctx context.Context, id entities.PartID) ([]entities.BOMLine, error) {
	var items []BOMItemModel
	err := r.db.WithContext(ctx).
		Where("part_id = ?", int64(id)).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, translateError(err, "BOM of part %d", id)
	}

	lines := make([]entities.BOMLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.toEntity())
	}
	return lines, nil
}

type finalDataRow struct {
	ID             int64
	Name           string
	AvailableStock decimal.Decimal
}

// GetFinalData reads name and available stock of all ids in one query.
// Ids the batch misses are looked up by name alone and reported with zero
// stock; ids that still cannot be found are unresolved.
func (r *InventoryRepository) GetFinalData(ctx context.Context, ids []entities.PartID) (map[entities.PartID]entities.FinalData, error) {
	result := make(map[entities.PartID]entities.FinalData, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rawIDs := make([]int64, len(ids))
	for i, id := range ids {
		rawIDs[i] = int64(id)
	}

	var rows []finalDataRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id, p.name,
			COALESCE(SUM(s.quantity) FILTER (WHERE `+inStockFilter+`), 0) AS available_stock
		FROM parts p
		LEFT JOIN stock_items s ON s.part_id = p.id
		WHERE p.id IN ?
		GROUP BY p.id, p.name
	`, inStockStatusCodes(), r.now(), rawIDs).Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "final data for %d parts", len(ids))
	}

	for _, row := range rows {
		id := entities.PartID(row.ID)
		result[id] = entities.ResolvedFinalData(id, row.Name, row.AvailableStock)
	}

	var missed []int64
	for _, id := range ids {
		if _, found := result[id]; !found {
			missed = append(missed, int64(id))
		}
	}
	if len(missed) == 0 {
		return result, nil
	}

	r.logger.Warn("batch final data missed parts, looking up names individually",
		zap.Int64s("part_ids", missed))

	var named []PartModel
	err = r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", missed).Find(&named).Error
	if err != nil {
		return nil, translateError(err, "names of %d parts", len(missed))
	}
	for _, part := range named {
		id := entities.PartID(part.ID)
		result[id] = entities.ResolvedFinalData(id, part.Name, entities.ZeroQuantity)
	}
	for _, raw := range missed {
		id := entities.PartID(raw)
		if _, found := result[id]; !found {
			result[id] = entities.UnresolvedFinalData(id)
		}
	}

	return result, nil
}

// LoadParts upserts parts
func (r *InventoryRepository) LoadParts(parts []*entities.Part) error {
	if len(parts) == 0 {
		return nil
	}
	models := make([]PartModel, 0, len(parts))
	for _, part := range parts {
		models = append(models, partToModel(part))
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "assembly", "active"}),
	}).CreateInBatches(models, 500).Error
}

// LoadBOMLines upserts BOM items on (parent, sub-part, reference). Repeated
// keys within one load keep the last quantity, as one statement cannot
// update the same row twice.
func (r *InventoryRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	if len(lines) == 0 {
		return nil
	}
	models := make([]BOMItemModel, 0, len(lines))
	positions := make(map[bomLineKey]int, len(lines))
	for _, line := range lines {
		model := bomLineToModel(line)
		if i, exists := positions[model.key()]; exists {
			models[i] = model
			continue
		}
		positions[model.key()] = len(models)
		models = append(models, model)
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "part_id"}, {Name: "sub_part_id"}, {Name: "reference"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).CreateInBatches(models, 500).Error
}

// LoadStock upserts stock items
func (r *InventoryRepository) LoadStock(records []*entities.StockRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]StockItemModel, 0, len(records))
	for _, record := range records {
		models = append(models, stockToModel(record))
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(models, 500).Error
}

// Ping checks the database connection
func (r *InventoryRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func inStockStatusCodes() []int {
	statuses := entities.InStockStatuses()
	codes := make([]int, len(statuses))
	for i, status := range statuses {
		codes[i] = int(status)
	}
	return codes
}

// translateError maps gorm errors onto the resolution error kinds
func translateError(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.ErrCodeNotFound, "not found: "+format, args...)
	}
	return apperrors.Wrap(apperrors.ErrCodeBackendFault, err, "failed to read "+format, args...)
}
