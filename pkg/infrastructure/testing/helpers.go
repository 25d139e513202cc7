package testing

import (
	"context"
	"sync"
	"time"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/memory"
)

// FakeInventory wraps the memory repository with per-call counters and
// injectable faults for exercising the resolution core
type FakeInventory struct {
	*memory.InventoryRepository

	mu              sync.Mutex
	partCalls       map[entities.PartID]int
	bomCalls        map[entities.PartID]int
	finalDataCalls  int
	partFaults      map[entities.PartID]error
	bomFaults       map[entities.PartID]error
	finalDataFault  error
	partDetailPanic bool
	cancelOn        map[entities.PartID]context.CancelFunc
}

// Verify interface compliance
var _ repositories.InventoryPort = (*FakeInventory)(nil)

// NewFakeInventory wraps repo, or a fresh empty repository when repo is nil
func NewFakeInventory(repo *memory.InventoryRepository) *FakeInventory {
	if repo == nil {
		repo = memory.NewInventoryRepository(10, 20)
	}
	return &FakeInventory{
		InventoryRepository: repo,
		partCalls:           make(map[entities.PartID]int),
		bomCalls:            make(map[entities.PartID]int),
		partFaults:          make(map[entities.PartID]error),
		bomFaults:           make(map[entities.PartID]error),
		cancelOn:            make(map[entities.PartID]context.CancelFunc),
	}
}

// FailPartDetails makes every detail read of id return err
func (f *FakeInventory) FailPartDetails(id entities.PartID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partFaults[id] = err
}

// FailBOMLines makes every BOM read of id return err
func (f *FakeInventory) FailBOMLines(id entities.PartID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bomFaults[id] = err
}

// FailFinalData makes the batch final-data read return err
func (f *FakeInventory) FailFinalData(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalDataFault = err
}

// PanicOnPartDetails makes detail reads panic
func (f *FakeInventory) PanicOnPartDetails() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partDetailPanic = true
}

// CancelOnPartDetails calls cancel when the details of id are read and fails
// that read with the context error, as a driver does mid-request
func (f *FakeInventory) CancelOnPartDetails(id entities.PartID, cancel context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelOn[id] = cancel
}

// GetPartDetails counts the call and applies injected faults
func (f *FakeInventory) GetPartDetails(ctx context.Context, id entities.PartID) (*entities.PartDetails, error) {
	f.mu.Lock()
	f.partCalls[id]++
	err := f.partFaults[id]
	panicking := f.partDetailPanic
	cancel := f.cancelOn[id]
	f.mu.Unlock()

	if panicking {
		panic("injected part details panic")
	}
	if cancel != nil {
		cancel()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return f.InventoryRepository.GetPartDetails(ctx, id)
}

// GetBOMLines counts the call and applies injected faults
func (f *FakeInventory) GetBOMLines(ctx context.Context, id entities.PartID) ([]entities.BOMLine, error) {
	f.mu.Lock()
	f.bomCalls[id]++
	err := f.bomFaults[id]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.InventoryRepository.GetBOMLines(ctx, id)
}

// GetFinalData counts the call and applies an injected batch fault
func (f *FakeInventory) GetFinalData(ctx context.Context, ids []entities.PartID) (map[entities.PartID]entities.FinalData, error) {
	f.mu.Lock()
	f.finalDataCalls++
	err := f.finalDataFault
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.InventoryRepository.GetFinalData(ctx, ids)
}

// PartDetailCalls returns how often details of id were read
func (f *FakeInventory) PartDetailCalls(id entities.PartID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.partCalls[id]
}

// BOMCalls returns how often BOM lines of id were read
func (f *FakeInventory) BOMCalls(id entities.PartID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bomCalls[id]
}

// FinalDataCalls returns how often the batch final data was read
func (f *FakeInventory) FinalDataCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finalDataCalls
}

// InventoryBuilder assembles small inventories for tests
type InventoryBuilder struct {
	repo   *memory.InventoryRepository
	nextID int64
}

// NewInventoryBuilder creates a builder over an empty repository
func NewInventoryBuilder() *InventoryBuilder {
	return &InventoryBuilder{
		repo:   memory.NewInventoryRepository(10, 20),
		nextID: 1,
	}
}

// Assembly adds an assembly part
func (b *InventoryBuilder) Assembly(id int64, name string) *InventoryBuilder {
	b.repo.AddPart(entities.Part{ID: entities.PartID(id), Name: name, IsAssembly: true, Active: true})
	return b
}

// Component adds a base component part
func (b *InventoryBuilder) Component(id int64, name string) *InventoryBuilder {
	b.repo.AddPart(entities.Part{ID: entities.PartID(id), Name: name, Active: true})
	return b
}

// Line adds a BOM line; qty is parsed as a decimal string
func (b *InventoryBuilder) Line(parent, child int64, qty string) *InventoryBuilder {
	quantity, err := entities.ParseQuantity(qty)
	if err != nil {
		panic(err)
	}
	b.repo.AddBOMLine(entities.BOMLine{
		ParentID:    entities.PartID(parent),
		SubPartID:   entities.PartID(child),
		QuantityPer: quantity,
	})
	return b
}

// Stock adds an OK stock record; qty is parsed as a decimal string
func (b *InventoryBuilder) Stock(partID int64, qty string) *InventoryBuilder {
	quantity, err := entities.ParseQuantity(qty)
	if err != nil {
		panic(err)
	}
	b.repo.AddStockRecord(entities.StockRecord{
		ID:       b.nextID,
		PartID:   entities.PartID(partID),
		Quantity: quantity,
		Status:   entities.StockOK,
	})
	b.nextID++
	return b
}

// Build returns the populated repository with a fixed clock
func (b *InventoryBuilder) Build() *memory.InventoryRepository {
	b.repo.SetClock(func() time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	return b.repo
}

// BuildExampleScenario builds the two-level example: A uses 3 B and 1 C,
// B uses 2 C, and C has 5 units in stock.
func BuildExampleScenario() *memory.InventoryRepository {
	return NewInventoryBuilder().
		Assembly(1, "A").
		Assembly(2, "B").
		Component(3, "C").
		Line(1, 2, "3").
		Line(1, 3, "1").
		Line(2, 3, "2").
		Stock(3, "5").
		Build()
}

// BuildRocketScenario builds a wider dataset with shared sub-assemblies,
// an empty assembly and fractional quantities
func BuildRocketScenario() *memory.InventoryRepository {
	return NewInventoryBuilder().
		Assembly(100, "Launch Vehicle").
		Assembly(110, "Engine Assembly").
		Assembly(120, "Turbopump").
		Assembly(130, "Avionics Bay").
		Assembly(140, "Placeholder Fairing").
		Component(201, "Bolt M6").
		Component(202, "Gasket").
		Component(203, "Flight Computer").
		Component(204, "Wire Harness").
		Component(205, "Sealant (kg)").
		Line(100, 110, "5").
		Line(100, 130, "1").
		Line(100, 140, "1").
		Line(110, 120, "1").
		Line(110, 201, "24").
		Line(120, 201, "8").
		Line(120, 202, "2").
		Line(120, 205, "0.125").
		Line(130, 203, "3").
		Line(130, 204, "12").
		Line(130, 201, "16").
		Stock(201, "100").
		Stock(202, "10").
		Stock(203, "3").
		Stock(205, "0.2").
		Build()
}
