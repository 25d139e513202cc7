package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Calculator resolves target sets into order lines
type Calculator interface {
	ResolveDetailed(ctx context.Context, targets *entities.TargetSet) (*dto.ResolutionResult, error)
}

// CalculatorHandler serves the order calculation endpoint
type CalculatorHandler struct {
	calculator Calculator
	logger     *zap.Logger
}

// NewCalculatorHandler creates the handler
func NewCalculatorHandler(calculator Calculator, logger *zap.Logger) *CalculatorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculatorHandler{calculator: calculator, logger: logger}
}

// Calculate handles POST /api/v1/order-calculator/calculate
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	logger := h.logger.With(zap.String("request_id", c.GetString(requestIDKey)))

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON data", Code: string(apperrors.ErrCodeInvalidInput)})
		return
	}

	req, err := decodeCalculateRequest(body)
	if err != nil {
		logger.Warn("invalid JSON in calculation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON data", Code: string(apperrors.ErrCodeInvalidInput)})
		return
	}

	logger.Info("received calculation request", zap.Int("targets", len(req.Targets)))

	if len(req.Targets) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No target parts provided", Code: string(apperrors.ErrCodeInvalidInput)})
		return
	}

	targets := entities.NewTargetSet()
	for _, item := range req.Targets {
		id, quantity, err := parseTarget(item)
		if err == nil {
			err = targets.Add(id, quantity)
		}
		if err != nil {
			logger.Warn("ignoring invalid target item", zap.Any("item", item), zap.Error(err))
			continue
		}
	}

	if targets.Len() == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No valid target parts provided", Code: string(apperrors.ErrCodeInvalidInput)})
		return
	}

	result, err := h.calculator.ResolveDetailed(c.Request.Context(), targets)
	if err != nil {
		logger.Error("order calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Calculation failed: " + err.Error(),
			Code:  string(apperrors.GetCode(err)),
		})
		return
	}

	logger.Info("calculation successful",
		zap.String("run_id", result.RunID),
		zap.Int("order_lines", len(result.OrderLines)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	c.JSON(http.StatusOK, NewCalculateResponse(result))
}
