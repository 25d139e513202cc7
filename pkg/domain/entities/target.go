package entities

import (
	"sort"

	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Target is a requested top-level part and quantity to resolve
type Target struct {
	PartID   PartID
	Quantity Quantity
}

// TargetSet holds one quantity per target part, in insertion order.
// Adding a part twice keeps its first position and the last quantity.
type TargetSet struct {
	order      []PartID
	quantities map[PartID]Quantity
}

// NewTargetSet creates an empty target set
func NewTargetSet() *TargetSet {
	return &TargetSet{quantities: make(map[PartID]Quantity)}
}

// TargetSetFromMap builds a target set from a map, ordered by part id
func TargetSetFromMap(targets map[PartID]Quantity) (*TargetSet, error) {
	ids := make([]PartID, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	set := NewTargetSet()
	for _, id := range ids {
		if err := set.Add(id, targets[id]); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add validates and records a target
func (s *TargetSet) Add(id PartID, quantity Quantity) error {
	if id <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "part id must be positive, got %d", id)
	}
	if !quantity.IsPositive() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "quantity for part %d must be positive, got %s", id, quantity)
	}
	if _, exists := s.quantities[id]; !exists {
		s.order = append(s.order, id)
	}
	s.quantities[id] = quantity
	return nil
}

// Len returns the number of distinct targets
func (s *TargetSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Quantity returns the requested quantity for a part
func (s *TargetSet) Quantity(id PartID) (Quantity, bool) {
	if s == nil {
		return ZeroQuantity, false
	}
	q, ok := s.quantities[id]
	return q, ok
}

// Targets returns the targets in insertion order
func (s *TargetSet) Targets() []Target {
	if s == nil {
		return nil
	}
	targets := make([]Target, 0, len(s.order))
	for _, id := range s.order {
		targets = append(targets, Target{PartID: id, Quantity: s.quantities[id]})
	}
	return targets
}
