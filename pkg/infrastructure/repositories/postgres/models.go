package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// PartModel is the parts table row
type PartModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Name        string `gorm:"size:255;not null;index"`
	Description string `gorm:"size:1000"`
	IsAssembly  bool   `gorm:"column:assembly;not null;default:false"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName overrides the default table name
func (PartModel) TableName() string { return "parts" }

// BOMItemModel is the bom_items table row. A line is identified by parent,
// sub-part and reference, so re-importing a BOM updates it in place.
type BOMItemModel struct {
	ID        int64           `gorm:"primaryKey"`
	ParentID  int64           `gorm:"column:part_id;not null;index;uniqueIndex:idx_bom_items_line"`
	SubPartID int64           `gorm:"column:sub_part_id;not null;index;uniqueIndex:idx_bom_items_line"`
	Quantity  decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Reference string          `gorm:"size:500;not null;default:'';uniqueIndex:idx_bom_items_line"`
}

// bomLineKey is the natural key of a BOM item
type bomLineKey struct {
	parentID  int64
	subPartID int64
	reference string
}

func (m BOMItemModel) key() bomLineKey {
	return bomLineKey{parentID: m.ParentID, subPartID: m.SubPartID, reference: m.Reference}
}

// TableName overrides the default table name
func (BOMItemModel) TableName() string { return "bom_items" }

// StockItemModel is the stock_items table row
type StockItemModel struct {
	ID                  int64           `gorm:"primaryKey"`
	PartID              int64           `gorm:"column:part_id;not null;index"`
	Quantity            decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Status              int             `gorm:"not null;default:10"`
	ExpiryDate          *time.Time      `gorm:"type:date"`
	ConsumedByBuild     *int64          `gorm:"column:consumed_by_id"`
	AllocatedToCustomer *int64          `gorm:"column:customer_id"`
	IsBuilding          bool            `gorm:"not null;default:false"`
}

// TableName overrides the default table name
func (StockItemModel) TableName() string { return "stock_items" }

// AllModels lists the models managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&PartModel{},
		&BOMItemModel{},
		&StockItemModel{},
	}
}

func partToModel(part *entities.Part) PartModel {
	return PartModel{
		ID:          int64(part.ID),
		Name:        part.Name,
		Description: part.Description,
		IsAssembly:  part.IsAssembly,
		Active:      part.Active,
	}
}

func bomLineToModel(line *entities.BOMLine) BOMItemModel {
	return BOMItemModel{
		ParentID:  int64(line.ParentID),
		SubPartID: int64(line.SubPartID),
		Quantity:  line.QuantityPer,
		Reference: line.Reference,
	}
}

func stockToModel(record *entities.StockRecord) StockItemModel {
	return StockItemModel{
		ID:                  record.ID,
		PartID:              int64(record.PartID),
		Quantity:            record.Quantity,
		Status:              int(record.Status),
		ExpiryDate:          record.ExpiryDate,
		ConsumedByBuild:     record.ConsumedByBuild,
		AllocatedToCustomer: record.AllocatedToCustomer,
		IsBuilding:          record.IsBuilding,
	}
}

func (m BOMItemModel) toEntity() entities.BOMLine {
	return entities.BOMLine{
		ParentID:    entities.PartID(m.ParentID),
		SubPartID:   entities.PartID(m.SubPartID),
		QuantityPer: m.Quantity,
		Reference:   m.Reference,
	}
}
