package resolution

import "github.com/vsinha/ordercalc/pkg/domain/entities"

// Accumulator sums the required quantity per base component.
// Entries are created on first contribution, never removed, and remember
// the order in which components were first reached.
type Accumulator struct {
	order  []entities.PartID
	totals map[entities.PartID]entities.Quantity
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[entities.PartID]entities.Quantity)}
}

// Add adds quantity to the component's running total
func (a *Accumulator) Add(id entities.PartID, quantity entities.Quantity) {
	current, exists := a.totals[id]
	if !exists {
		a.order = append(a.order, id)
		current = entities.ZeroQuantity
	}
	a.totals[id] = current.Add(quantity)
}

// Required returns the accumulated requirement of a component
func (a *Accumulator) Required(id entities.PartID) entities.Quantity {
	if q, exists := a.totals[id]; exists {
		return q
	}
	return entities.ZeroQuantity
}

// Len returns the number of distinct components
func (a *Accumulator) Len() int {
	return len(a.order)
}

// IDs returns the components in first-contribution order
func (a *Accumulator) IDs() []entities.PartID {
	ids := make([]entities.PartID, len(a.order))
	copy(ids, a.order)
	return ids
}
