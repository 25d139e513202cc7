package resolution

import (
	"context"

	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// DefaultMaxDepth bounds assembly nesting when no limit is configured
const DefaultMaxDepth = 64

// Walker expands assemblies depth-first and accumulates base component
// requirements. A part that cannot be read is skipped with a diagnostic;
// a cycle, an over-deep path or a cancelled context aborts the walk.
type Walker struct {
	cache    *Cache
	logger   *zap.Logger
	maxDepth int
	recorder *diagnosticRecorder
}

// NewWalker creates a walker reading through the given cache
func NewWalker(cache *Cache, logger *zap.Logger, maxDepth int) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Walker{
		cache:    cache,
		logger:   logger,
		maxDepth: maxDepth,
		recorder: newDiagnosticRecorder(logger),
	}
}

// Walk adds the base component requirements of quantity units of a part to acc
func (w *Walker) Walk(ctx context.Context, id entities.PartID, quantity entities.Quantity, acc *Accumulator) error {
	path := newPathTracker()
	return w.walk(ctx, id, quantity, acc, path)
}

// Diagnostics returns the faults recovered so far
func (w *Walker) Diagnostics() []dto.Diagnostic {
	return w.recorder.list()
}

func (w *Walker) walk(
	ctx context.Context,
	id entities.PartID,
	quantity entities.Quantity,
	acc *Accumulator,
	path *pathTracker,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	details, err := w.cache.GetPartDetails(ctx, id)
	if err != nil {
		// a cancelled call is not a fault of this part
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.recorder.record(id, dto.StagePartDetails, err)
		return nil
	}

	if !details.IsAssembly {
		w.logger.Debug("adding base component",
			zap.Int64("part_id", int64(id)),
			zap.String("name", details.Name),
			zap.String("quantity", quantity.String()),
		)
		acc.Add(id, quantity)
		return nil
	}

	if cycle := path.cycleTo(id); cycle != nil {
		return &apperrors.CycleError{Path: cycle}
	}
	if path.depth() >= w.maxDepth {
		return apperrors.New(apperrors.ErrCodeDepthExceeded,
			"assembly nesting deeper than %d levels at part %d", w.maxDepth, id)
	}

	lines, err := w.cache.GetBOMLines(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.recorder.record(id, dto.StageBOMLines, err)
		return nil
	}
	if len(lines) == 0 {
		w.logger.Debug("assembly has no BOM lines", zap.Int64("part_id", int64(id)))
		return nil
	}

	w.logger.Debug("expanding assembly",
		zap.Int64("part_id", int64(id)),
		zap.String("name", details.Name),
		zap.String("quantity", quantity.String()),
		zap.Int("lines", len(lines)),
		zap.Int("depth", path.depth()),
	)

	path.push(id)
	defer path.pop()

	for _, line := range lines {
		if err := w.walk(ctx, line.SubPartID, quantity.Mul(line.QuantityPer), acc, path); err != nil {
			return err
		}
	}
	return nil
}

// pathTracker holds the assemblies on the current root-to-node path.
// Reuse of a part on a different path is allowed; only a part that is
// already an ancestor of itself is a cycle.
type pathTracker struct {
	stack   []entities.PartID
	onStack map[entities.PartID]bool
}

func newPathTracker() *pathTracker {
	return &pathTracker{onStack: make(map[entities.PartID]bool)}
}

func (p *pathTracker) push(id entities.PartID) {
	p.stack = append(p.stack, id)
	p.onStack[id] = true
}

func (p *pathTracker) pop() {
	last := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	delete(p.onStack, last)
}

func (p *pathTracker) depth() int {
	return len(p.stack)
}

// cycleTo returns the cycle closed by visiting id, or nil
func (p *pathTracker) cycleTo(id entities.PartID) []int64 {
	if !p.onStack[id] {
		return nil
	}
	var cycle []int64
	for i, ancestor := range p.stack {
		if ancestor == id {
			for _, member := range p.stack[i:] {
				cycle = append(cycle, int64(member))
			}
			break
		}
	}
	return append(cycle, int64(id))
}

// diagnosticRecorder keeps one diagnostic per part and stage
type diagnosticRecorder struct {
	logger      *zap.Logger
	seen        map[diagnosticKey]bool
	diagnostics []dto.Diagnostic
}

type diagnosticKey struct {
	id    entities.PartID
	stage dto.Stage
}

func newDiagnosticRecorder(logger *zap.Logger) *diagnosticRecorder {
	return &diagnosticRecorder{
		logger: logger,
		seen:   make(map[diagnosticKey]bool),
	}
}

func (r *diagnosticRecorder) record(id entities.PartID, stage dto.Stage, err error) {
	key := diagnosticKey{id: id, stage: stage}
	if r.seen[key] {
		return
	}
	r.seen[key] = true

	code := faultCode(err)
	subtreeFaultsTotal.WithLabelValues(string(stage), string(code)).Inc()
	r.logger.Warn("skipping subtree",
		zap.Int64("part_id", int64(id)),
		zap.String("stage", string(stage)),
		zap.String("code", string(code)),
		zap.Error(err),
	)

	r.diagnostics = append(r.diagnostics, dto.Diagnostic{
		PartID:  id,
		Stage:   stage,
		Code:    code,
		Message: err.Error(),
	})
}

func (r *diagnosticRecorder) list() []dto.Diagnostic {
	out := make([]dto.Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// faultCode classifies a port error: absence stays NOT_FOUND, anything else
// is a backend fault.
func faultCode(err error) apperrors.Code {
	if apperrors.Is(err, apperrors.ErrCodeNotFound) {
		return apperrors.ErrCodeNotFound
	}
	return apperrors.ErrCodeBackendFault
}
