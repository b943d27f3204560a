package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type fixedSource struct {
	records map[string][]prediction.Record
}

func (s *fixedSource) FetchPredictions(_ context.Context, date string) []prediction.Record {
	return s.records[date]
}

func newTestRouter(t *testing.T, records map[string][]prediction.Record) http.Handler {
	t.Helper()

	store := memory.NewPredictionRepository(nil)
	predictionService := usecase.NewPredictionService(store, &fixedSource{records: records}, nil)
	prewarmService := usecase.NewPrewarmService(predictionService, 1, 1, nil)
	handler := NewHandler(predictionService, prewarmService, nil)

	return NewRouter(handler, nil, []string{"*"}, "test-token")
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return envelope
}

func testDayRecords() map[string][]prediction.Record {
	return map[string][]prediction.Record{
		"2025-08-12": {
			{Date: "2025-08-12", HomeTeam: "Deportivo Cali", AwayTeam: "Boyacá Chicó", HomeWinChance: 56, Competition: "Categoría Primera A", Country: "Colombia"},
			{Date: "2025-08-12", HomeTeam: "Real Soacha", AwayTeam: "Llaneros", HomeWinChance: 21, Competition: "Categoría Primera A", Country: "Colombia"},
		},
	}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_GetPredictions_FiltersAndCaches(t *testing.T) {
	router := newTestRouter(t, testDayRecords())

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions?date=2025-08-12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object: %v", envelope)
	}
	if cached, _ := data["cached"].(bool); cached {
		t.Fatal("first request must report cached=false")
	}
	if count, _ := data["count"].(float64); count != 1 {
		t.Fatalf("threshold filter must keep one match: %v", data["count"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predictions?date=2025-08-12", nil))

	envelope = decodeEnvelope(t, rec.Body.Bytes())
	data = envelope["data"].(map[string]any)
	if cached, _ := data["cached"].(bool); !cached {
		t.Fatal("second request must be served from cache")
	}
}

func TestRouter_GetPredictions_TeamFilter(t *testing.T) {
	router := newTestRouter(t, testDayRecords())

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions?date=2025-08-12&team=cali", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data := envelope["data"].(map[string]any)
	if count, _ := data["count"].(float64); count != 1 {
		t.Fatalf("unexpected count: %v", data["count"])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/predictions?date=2025-08-12&team=soacha", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	envelope = decodeEnvelope(t, rec.Body.Bytes())
	data = envelope["data"].(map[string]any)
	if count, _ := data["count"].(float64); count != 0 {
		t.Fatalf("team filter applies after the threshold filter: %v", data["count"])
	}
}

func TestRouter_GetPredictions_InvalidDate(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, target := range []string{"/v1/predictions", "/v1/predictions?date=12-08-2025"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "INVALID_ARGUMENT") {
			t.Fatalf("%s: expected INVALID_ARGUMENT status: %s", target, rec.Body.String())
		}
	}
}

func TestRouter_ListAllPredictions_Unfiltered(t *testing.T) {
	router := newTestRouter(t, testDayRecords())

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/all?date=2025-08-12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data := envelope["data"].(map[string]any)
	if count, _ := data["count"].(float64); count != 2 {
		t.Fatalf("all view must include below-threshold matches: %v", data["count"])
	}
}

func TestRouter_GetPredictionStats(t *testing.T) {
	router := newTestRouter(t, testDayRecords())

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/stats?date=2025-08-12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data := envelope["data"].(map[string]any)
	stats, ok := data["stats"].(map[string]any)
	if !ok {
		t.Fatalf("expected stats object: %v", data)
	}
	if total, _ := stats["total_matches"].(float64); total != 2 {
		t.Fatalf("stats must cover the unfiltered set: %v", stats["total_matches"])
	}
}

func TestRouter_PrewarmJob_TokenGuard(t *testing.T) {
	router := newTestRouter(t, testDayRecords())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/prewarm", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token must be rejected: got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/prewarm", strings.NewReader(`{"days":1}`))
	req.Header.Set("X-Internal-Job-Token", "test-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data := envelope["data"].(map[string]any)
	if tasks, _ := data["task_count"].(float64); tasks != 1 {
		t.Fatalf("unexpected task count: %v", data["task_count"])
	}
	if failed, _ := data["failed_count"].(float64); failed != 0 {
		t.Fatalf("unexpected failed count: %v", data["failed_count"])
	}
}
