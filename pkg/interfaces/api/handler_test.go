package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/application/services/resolution"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
	testhelpers "github.com/vsinha/ordercalc/pkg/infrastructure/testing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingCalculator captures the targets it receives
type recordingCalculator struct {
	received *entities.TargetSet
	result   *dto.ResolutionResult
	err      error
}

func (r *recordingCalculator) ResolveDetailed(ctx context.Context, targets *entities.TargetSet) (*dto.ResolutionResult, error) {
	r.received = targets
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &dto.ResolutionResult{OrderLines: []entities.OrderLine{}}, nil
}

type failingHealth struct{}

func (failingHealth) Ping(ctx context.Context) error { return errors.New("database unreachable") }

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return body
}

const calculatePath = "/api/v1/order-calculator/calculate"

func TestCalculate_ExampleScenario(t *testing.T) {
	resolver := resolution.NewResolver(testhelpers.BuildExampleScenario())
	router := NewRouter(RouterConfig{Calculator: resolver})

	w := doRequest(router, http.MethodPost, calculatePath, `{"targets":[{"part_id":1,"quantity":2}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := parseBody(t, w)
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
	results := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	line := results[0].(map[string]any)
	if line["pk"] != float64(3) || line["name"] != "C" {
		t.Errorf("unexpected line %v", line)
	}
	if line["required"] != float64(14) || line["in_stock"] != float64(5) || line["to_order"] != float64(9) {
		t.Errorf("unexpected quantities %v", line)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestCalculate_FractionalQuantitiesAreNumbers(t *testing.T) {
	resolver := resolution.NewResolver(testhelpers.BuildRocketScenario())
	router := NewRouter(RouterConfig{Calculator: resolver})

	w := doRequest(router, http.MethodPost, calculatePath, `{"targets":[{"partId":205,"quantity":"0.2625"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// half-even rounding to three places
	for _, want := range []string{`"required":0.262`, `"in_stock":0.2`, `"to_order":0.062`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("expected %s in %s", want, w.Body.String())
		}
	}
}

func TestCalculate_InputValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
	}{
		{"malformed json", `{"targets":[`, http.StatusBadRequest, "Invalid JSON data"},
		{"targets not a list", `{"targets":"1"}`, http.StatusBadRequest, "Invalid JSON data"},
		{"missing targets", `{}`, http.StatusBadRequest, "No target parts provided"},
		{"empty targets", `{"targets":[]}`, http.StatusBadRequest, "No target parts provided"},
		{"all invalid", `{"targets":[{"part_id":"abc","quantity":1},{"part_id":2,"quantity":0},{"part_id":3,"quantity":-1},{"quantity":4}]}`, http.StatusBadRequest, "No valid target parts provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := &recordingCalculator{}
			router := NewRouter(RouterConfig{Calculator: calc})

			w := doRequest(router, http.MethodPost, calculatePath, tt.body)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if got := parseBody(t, w)["error"]; got != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, got)
			}
			if calc.received != nil {
				t.Error("calculator must not be called for rejected input")
			}
		})
	}
}

func TestCalculate_SkipsInvalidItems(t *testing.T) {
	calc := &recordingCalculator{}
	router := NewRouter(RouterConfig{Calculator: calc})

	body := `{"targets":[
		{"part_id":5,"quantity":1},
		"junk",
		42,
		null,
		["part_id",9],
		{"part_id":"x","quantity":1},
		{"part_id":6,"quantity":0},
		{"part_id":"7","quantity":"2.5"},
		{"part_id":8.0,"quantity":1},
		{"part_id":9.5,"quantity":1},
		{"part_id":10,"quantity":1e3000000},
		{"part_id":11,"quantity":1e-3000000},
		{"part_id":5,"quantity":3}
	]}`
	w := doRequest(router, http.MethodPost, calculatePath, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	targets := calc.received.Targets()
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %+v", targets)
	}
	if targets[0].PartID != 5 || !targets[0].Quantity.Equal(entities.NewQuantity(3)) {
		t.Errorf("expected part 5 with last quantity 3, got %+v", targets[0])
	}
	if targets[1].PartID != 7 || targets[1].Quantity.String() != "2.5" {
		t.Errorf("expected part 7 with quantity 2.5, got %+v", targets[1])
	}
	if targets[2].PartID != 8 {
		t.Errorf("expected integral part id 8.0 to be accepted, got %+v", targets[2])
	}
}

func TestCalculate_OnlyOversizedQuantities(t *testing.T) {
	calc := &recordingCalculator{}
	router := NewRouter(RouterConfig{Calculator: calc})

	w := doRequest(router, http.MethodPost, calculatePath, `{"targets":[{"part_id":1,"quantity":1e3000000}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if body := parseBody(t, w); body["error"] != "No valid target parts provided" {
		t.Errorf("unexpected error body %v", body)
	}
	if calc.received != nil {
		t.Error("calculator must not be called")
	}
}

func TestParsePartID(t *testing.T) {
	tests := []struct {
		raw     any
		want    entities.PartID
		wantErr bool
	}{
		{json.Number("3"), 3, false},
		{json.Number("3.0"), 3, false},
		{json.Number("3e1"), 30, false},
		{" 12 ", 12, false},
		{json.Number("3.5"), 0, true},
		{json.Number("1e30"), 0, true},
		{json.Number("1e3000000"), 0, true},
		{true, 0, true},
	}

	for _, tt := range tests {
		got, err := parsePartID(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePartID(%v): expected error, got %d", tt.raw, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parsePartID(%v) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}

func TestCalculate_ResolutionFailure(t *testing.T) {
	calc := &recordingCalculator{err: &apperrors.CycleError{Path: []int64{1, 2, 1}}}
	router := NewRouter(RouterConfig{Calculator: calc})

	w := doRequest(router, http.MethodPost, calculatePath, `{"targets":[{"part_id":1,"quantity":1}]}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := parseBody(t, w)
	if !strings.HasPrefix(body["error"].(string), "Calculation failed: ") {
		t.Errorf("unexpected error %v", body["error"])
	}
	if body["code"] != string(apperrors.ErrCodeCycleDetected) {
		t.Errorf("expected cycle code, got %v", body["code"])
	}
}

func TestCalculate_EmptyResultIsEmptyList(t *testing.T) {
	router := NewRouter(RouterConfig{Calculator: &recordingCalculator{}})

	w := doRequest(router, http.MethodPost, calculatePath, `{"targets":[{"part_id":1,"quantity":1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results list, got %s", w.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name     string
		health   repositories.HealthChecker
		path     string
		wantCode int
	}{
		{"live", nil, "/health/live", http.StatusOK},
		{"ready without store check", nil, "/health/ready", http.StatusOK},
		{"ready with failing store", failingHealth{}, "/health/ready", http.StatusServiceUnavailable},
		{"version", nil, "/version", http.StatusOK},
		{"metrics", nil, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(RouterConfig{Calculator: &recordingCalculator{}, Health: tt.health, Version: "1.2.3"})

			w := doRequest(router, http.MethodGet, tt.path, "")
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequestID_Propagated(t *testing.T) {
	router := NewRouter(RouterConfig{Calculator: &recordingCalculator{}})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected propagated request id, got %q", got)
	}
}

func TestRouter_GzipResponses(t *testing.T) {
	router := NewRouter(RouterConfig{Calculator: &recordingCalculator{}})

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}

	reader, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("invalid gzip body: %v", err)
	}
	defer reader.Close()
	var body map[string]any
	if err := json.NewDecoder(reader).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Errorf("expected version field, got %v", body)
	}
}
