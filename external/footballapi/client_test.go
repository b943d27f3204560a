package footballapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

func newTestClient(srv *httptest.Server, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Token:          "secret-token",
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClientFetchMatchesByDate_SendsTokenAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/matches" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "secret-token" {
			t.Fatalf("unexpected api_token: %s", got)
		}
		if got := r.URL.Query().Get("from"); got != "2025-08-12" {
			t.Fatalf("unexpected from: %s", got)
		}
		if got := r.URL.Query().Get("to"); got != "2025-08-12" {
			t.Fatalf("unexpected to: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"home_team":"Deportivo Cali",
			"away_team":"Boyacá Chicó",
			"start_date":"2025-08-12 19:30:00",
			"competition_cluster":"Colombia",
			"competition_full":"Categoría Primera A",
			"country":"Colombia",
			"odds":{"1":"1.80","X":"3.50","2":"4.20"}
		}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{Enabled: false})

	items, err := client.FetchMatchesByDate(context.Background(), "2025-08-12")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one match, got %d", len(items))
	}
	if items[0].HomeTeam != "Deportivo Cali" {
		t.Fatalf("unexpected home team: %s", items[0].HomeTeam)
	}
	if items[0].Odds.Home != "1.80" {
		t.Fatalf("unexpected home odds: %s", items[0].Odds.Home)
	}
}

func TestClientFetchMatchesByDate_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 1, resilience.CircuitBreakerConfig{Enabled: false})

	items, err := client.FetchMatchesByDate(context.Background(), "2025-08-12")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty data array, got nil")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 provider calls, got %d", got)
	}
}

func TestClientFetchMatchesByDate_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 3, resilience.CircuitBreakerConfig{Enabled: false})

	_, err := client.FetchMatchesByDate(context.Background(), "2025-08-12")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("4xx responses must not be retried, got %d calls", got)
	}
}

func TestClientFetchMatchesByDate_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchMatchesByDate(context.Background(), "2025-08-12"); err == nil {
			t.Fatal("expected provider failure")
		}
	}
	before := calls.Load()

	_, err := client.FetchMatchesByDate(context.Background(), "2025-08-12")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
	if calls.Load() != before {
		t.Fatal("open circuit must not reach the provider")
	}
}

func TestClientFetchMatchesByDate_RequiresDate(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FetchMatchesByDate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty date")
	}
}

func TestSanitizeSensitiveText_RedactsToken(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://provider.test/matches?api_token=secret-token&from=2025-08-12": dial tcp: timeout`, "secret-token")
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %s", got)
	}
	if !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("expected redacted token param: %s", got)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://provider.test/matches?from=2025-08-12&api_token=abc123")
	if strings.Contains(got, "abc123") {
		t.Fatalf("token leaked: %s", got)
	}
}
