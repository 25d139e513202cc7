package resolution

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Aggregator turns accumulated requirements into sorted order lines
type Aggregator struct {
	port     repositories.InventoryPort
	logger   *zap.Logger
	recorder *diagnosticRecorder
}

// NewAggregator creates an aggregator that reads final data through port
func NewAggregator(port repositories.InventoryPort, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		port:     port,
		logger:   logger,
		recorder: newDiagnosticRecorder(logger),
	}
}

// Aggregate fetches final data for every accumulated component and returns
// the components whose requirement exceeds available stock, sorted by name.
// Components keep their first-contribution order among equal names.
// The only error is a cancelled context.
func (a *Aggregator) Aggregate(ctx context.Context, acc *Accumulator) ([]entities.OrderLine, error) {
	if acc.Len() == 0 {
		return []entities.OrderLine{}, nil
	}

	ids := acc.IDs()
	finalData, err := a.fetchFinalData(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]entities.OrderLine, 0, len(ids))
	for _, id := range ids {
		data, exists := finalData[id]
		if !exists {
			a.recorder.record(id, dto.StageFinalData,
				apperrors.New(apperrors.ErrCodeNotFound, "no final data for part %d", id))
			data = entities.UnresolvedFinalData(id)
		}

		line, needed := entities.NewOrderLine(id, acc.Required(id), data)
		if !needed {
			continue
		}
		lines = append(lines, *line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Name < lines[j].Name
	})

	return lines, nil
}

// Diagnostics returns the final-data faults recovered so far
func (a *Aggregator) Diagnostics() []dto.Diagnostic {
	return a.recorder.list()
}

// fetchFinalData reads the batch. A failed batch reports every component
// as unresolved, even ones a per-part lookup could have found.
func (a *Aggregator) fetchFinalData(ctx context.Context, ids []entities.PartID) (map[entities.PartID]entities.FinalData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := a.port.GetFinalData(ctx, ids)
	if err == nil {
		if data == nil {
			data = make(map[entities.PartID]entities.FinalData)
		}
		return data, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	a.logger.Error("final data batch failed, reporting all components as unresolved",
		zap.Int("components", len(ids)),
		zap.Error(err),
	)

	fallback := make(map[entities.PartID]entities.FinalData, len(ids))
	for _, id := range ids {
		a.recorder.record(id, dto.StageFinalData, err)
		fallback[id] = entities.UnresolvedFinalData(id)
	}
	return fallback, nil
}
