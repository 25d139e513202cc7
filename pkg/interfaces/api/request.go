package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// calculateRequest is the body of the calculate endpoint. Items are kept raw
// so one malformed entry does not reject the whole request.
type calculateRequest struct {
	Targets []any `json:"targets"`
}

func decodeCalculateRequest(body []byte) (*calculateRequest, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var req calculateRequest
	if err := decoder.Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// parseTarget extracts part id and quantity from one request item.
// Both snake_case and camelCase id keys are accepted.
func parseTarget(raw any) (entities.PartID, entities.Quantity, error) {
	item, ok := raw.(map[string]any)
	if !ok {
		return 0, entities.ZeroQuantity, fmt.Errorf("target item is not an object: %v", raw)
	}

	rawID, ok := item["part_id"]
	if !ok {
		rawID, ok = item["partId"]
	}
	if !ok {
		return 0, entities.ZeroQuantity, fmt.Errorf("missing part_id")
	}

	id, err := parsePartID(rawID)
	if err != nil {
		return 0, entities.ZeroQuantity, err
	}

	rawQty, ok := item["quantity"]
	if !ok {
		return 0, entities.ZeroQuantity, fmt.Errorf("missing quantity")
	}
	quantity, err := parseQuantity(rawQty)
	if err != nil {
		return 0, entities.ZeroQuantity, err
	}

	return id, quantity, nil
}

func parsePartID(raw any) (entities.PartID, error) {
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("invalid part_id: %v", raw)
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return entities.PartID(id), nil
	}

	// integral decimals such as 3.0 or 3e0 are accepted
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() > 18 || d.Exponent() < -18 ||
		!d.IsInteger() || d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("invalid part_id: %s", s)
	}
	return entities.PartID(d.IntPart()), nil
}

func parseQuantity(raw any) (entities.Quantity, error) {
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return entities.ZeroQuantity, fmt.Errorf("invalid quantity: %v", raw)
	}

	return entities.ParseQuantity(s)
}
