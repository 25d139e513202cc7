package entities

import (
	"fmt"
	"strings"
	"time"
)

// StockStatus represents the status code of a stock record
type StockStatus int

const (
	StockOK          StockStatus = 10
	StockAttention   StockStatus = 50
	StockDamaged     StockStatus = 55
	StockDestroyed   StockStatus = 60
	StockRejected    StockStatus = 65
	StockLost        StockStatus = 70
	StockQuarantined StockStatus = 75
	StockReturned    StockStatus = 85
)

// String method for StockStatus enum
func (s StockStatus) String() string {
	switch s {
	case StockOK:
		return "OK"
	case StockAttention:
		return "Attention"
	case StockDamaged:
		return "Damaged"
	case StockDestroyed:
		return "Destroyed"
	case StockRejected:
		return "Rejected"
	case StockLost:
		return "Lost"
	case StockQuarantined:
		return "Quarantined"
	case StockReturned:
		return "Returned"
	default:
		return "Unknown"
	}
}

// InStock reports whether the status belongs to the in-stock class
func (s StockStatus) InStock() bool {
	switch s {
	case StockOK, StockAttention, StockDamaged:
		return true
	default:
		return false
	}
}

// InStockStatuses lists the status codes counted as available stock
func InStockStatuses() []StockStatus {
	return []StockStatus{StockOK, StockAttention, StockDamaged}
}

// ParseStockStatus parses a status name (case-insensitive)
func ParseStockStatus(s string) (StockStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok", "":
		return StockOK, nil
	case "attention":
		return StockAttention, nil
	case "damaged":
		return StockDamaged, nil
	case "destroyed":
		return StockDestroyed, nil
	case "rejected":
		return StockRejected, nil
	case "lost":
		return StockLost, nil
	case "quarantined":
		return StockQuarantined, nil
	case "returned":
		return StockReturned, nil
	default:
		return 0, fmt.Errorf("unknown stock status: %s", s)
	}
}

// StockRecord represents one physical stock item of a part
type StockRecord struct {
	ID                  int64
	PartID              PartID
	Quantity            Quantity
	Status              StockStatus
	ExpiryDate          *time.Time
	ConsumedByBuild     *int64
	AllocatedToCustomer *int64
	IsBuilding          bool
}

// NewStockRecord creates a validated StockRecord
func NewStockRecord(id int64, partID PartID, quantity Quantity, status StockStatus) (*StockRecord, error) {
	if partID <= 0 {
		return nil, fmt.Errorf("part id must be positive, got %d", partID)
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}

	return &StockRecord{
		ID:       id,
		PartID:   partID,
		Quantity: quantity,
		Status:   status,
	}, nil
}

// IsAvailable reports whether the record counts towards available stock as of
// the given instant: positive quantity, an in-stock status, not consumed by a
// build, not allocated to a customer, not in production and not expired.
func (r StockRecord) IsAvailable(asOf time.Time) bool {
	if !r.Quantity.IsPositive() {
		return false
	}
	if !r.Status.InStock() {
		return false
	}
	if r.ConsumedByBuild != nil || r.AllocatedToCustomer != nil || r.IsBuilding {
		return false
	}
	if r.ExpiryDate != nil && !r.ExpiryDate.After(asOf) {
		return false
	}
	return true
}

// AvailableStock sums the quantities of the available records
func AvailableStock(records []StockRecord, asOf time.Time) Quantity {
	total := ZeroQuantity
	for _, r := range records {
		if r.IsAvailable(asOf) {
			total = total.Add(r.Quantity)
		}
	}
	return total
}
