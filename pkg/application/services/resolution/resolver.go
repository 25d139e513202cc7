package resolution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Config holds resolver settings
type Config struct {
	// MaxDepth bounds assembly nesting along one path
	MaxDepth int
	Logger   *zap.Logger
}

// DefaultConfig returns the settings used by NewResolver
func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		Logger:   zap.NewNop(),
	}
}

// Resolver computes the base components to order for a set of targets.
// It is safe for concurrent use: each call builds its own cache and
// accumulator and only the port is shared.
type Resolver struct {
	port   repositories.InventoryPort
	config Config
}

// NewResolver creates a resolver with default settings
func NewResolver(port repositories.InventoryPort) *Resolver {
	return NewResolverWithConfig(port, DefaultConfig())
}

// NewResolverWithConfig creates a resolver with custom settings
func NewResolverWithConfig(port repositories.InventoryPort, config Config) *Resolver {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Resolver{
		port:   port,
		config: config,
	}
}

// Resolve returns the order lines for the targets, sorted by component name
func (r *Resolver) Resolve(ctx context.Context, targets *entities.TargetSet) ([]entities.OrderLine, error) {
	result, err := r.ResolveDetailed(ctx, targets)
	if err != nil {
		return nil, err
	}
	return result.OrderLines, nil
}

// ResolveDetailed resolves the targets and also reports the run id,
// recovered faults and cache counters.
func (r *Resolver) ResolveDetailed(ctx context.Context, targets *entities.TargetSet) (result *dto.ResolutionResult, err error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := r.config.Logger.With(zap.String("run_id", runID))

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("resolution panicked", zap.Any("panic", recovered))
			result = nil
			err = apperrors.New(apperrors.ErrCodeInternal, "unexpected fault during resolution: %v", recovered)
		}

		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeFailed
		}
		resolutionsTotal.WithLabelValues(outcome).Inc()
		resolutionDuration.Observe(time.Since(startTime).Seconds())
	}()

	logger.Info("starting resolution", zap.Int("targets", targets.Len()))

	cache := NewCache(r.port)
	acc := NewAccumulator()
	walker := NewWalker(cache, logger, r.config.MaxDepth)

	for _, target := range targets.Targets() {
		logger.Info("resolving target",
			zap.Int64("part_id", int64(target.PartID)),
			zap.String("quantity", target.Quantity.String()),
		)
		if walkErr := walker.Walk(ctx, target.PartID, target.Quantity, acc); walkErr != nil {
			logger.Error("resolution aborted",
				zap.Int64("part_id", int64(target.PartID)),
				zap.String("code", string(apperrors.GetCode(walkErr))),
				zap.Error(walkErr),
			)
			return nil, fmt.Errorf("failed to resolve target %d: %w", target.PartID, walkErr)
		}
	}

	aggregator := NewAggregator(r.port, logger)
	orderLines, err := aggregator.Aggregate(ctx, acc)
	if err != nil {
		logger.Warn("resolution cancelled before final data", zap.Error(err))
		return nil, fmt.Errorf("failed to read final data: %w", err)
	}

	diagnostics := append(walker.Diagnostics(), aggregator.Diagnostics()...)
	cacheStats := cache.Stats()

	result = &dto.ResolutionResult{
		RunID:       runID,
		OrderLines:  orderLines,
		Diagnostics: diagnostics,
		Stats: dto.ResolutionStats{
			Targets:          targets.Len(),
			Components:       acc.Len(),
			OrderLines:       len(orderLines),
			PartFetches:      cacheStats.PartFetches,
			BOMFetches:       cacheStats.BOMFetches,
			CacheHits:        cacheStats.PartHits + cacheStats.BOMHits,
			BOMShortCircuits: cacheStats.BOMShortCircuits,
		},
		Duration: time.Since(startTime),
	}
	orderLinesTotal.Add(float64(len(orderLines)))

	logger.Info("resolution completed",
		zap.Int("components", acc.Len()),
		zap.Int("order_lines", len(orderLines)),
		zap.Int("diagnostics", len(diagnostics)),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}
