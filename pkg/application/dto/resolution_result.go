package dto

import (
	"time"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Stage names the step at which a per-subtree fault was recovered
type Stage string

const (
	StagePartDetails Stage = "part_details"
	StageBOMLines    Stage = "bom_lines"
	StageFinalData   Stage = "final_data"
)

// Diagnostic records a fault that was skipped instead of aborting the resolution
type Diagnostic struct {
	PartID  entities.PartID `json:"part_id"`
	Stage   Stage           `json:"stage"`
	Code    apperrors.Code  `json:"code"`
	Message string          `json:"message"`
}

// ResolutionStats counts the work done by one resolution
type ResolutionStats struct {
	Targets          int `json:"targets"`
	Components       int `json:"components"`
	OrderLines       int `json:"order_lines"`
	PartFetches      int `json:"part_fetches"`
	BOMFetches       int `json:"bom_fetches"`
	CacheHits        int `json:"cache_hits"`
	BOMShortCircuits int `json:"bom_short_circuits"`
}

// ResolutionResult contains the complete output of one resolution
type ResolutionResult struct {
	RunID       string
	OrderLines  []entities.OrderLine
	Diagnostics []Diagnostic
	Stats       ResolutionStats
	Duration    time.Duration
}
