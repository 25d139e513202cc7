package api

import (
	"encoding/json"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// OrderLineResponse is one result row as the calculator widget reads it
type OrderLineResponse struct {
	PK       int64       `json:"pk"`
	Name     string      `json:"name"`
	Required json.Number `json:"required"`
	InStock  json.Number `json:"in_stock"`
	ToOrder  json.Number `json:"to_order"`
}

// CalculateResponse is the success body of the calculate endpoint
type CalculateResponse struct {
	Success     bool                `json:"success"`
	Results     []OrderLineResponse `json:"results"`
	RunID       string              `json:"run_id,omitempty"`
	Diagnostics []dto.Diagnostic    `json:"diagnostics,omitempty"`
}

// ErrorResponse is the failure body of every endpoint
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewOrderLineResponse converts an order line; quantities stay exact
func NewOrderLineResponse(line entities.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		PK:       int64(line.PartID),
		Name:     line.Name,
		Required: json.Number(line.Required.String()),
		InStock:  json.Number(line.InStock.String()),
		ToOrder:  json.Number(line.ToOrder.String()),
	}
}

// NewCalculateResponse converts a resolution result
func NewCalculateResponse(result *dto.ResolutionResult) CalculateResponse {
	results := make([]OrderLineResponse, 0, len(result.OrderLines))
	for _, line := range result.OrderLines {
		results = append(results, NewOrderLineResponse(line))
	}
	return CalculateResponse{
		Success:     true,
		Results:     results,
		RunID:       result.RunID,
		Diagnostics: result.Diagnostics,
	}
}
