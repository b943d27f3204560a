package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/external/footballapi"
	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-predictor/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// NewHTTPServer wires the full request path and returns the server plus a
// cleanup func that releases the cache store backend.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := openPredictionStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	source := newPredictionSource(cfg, logger)
	predictionSvc := usecase.NewPredictionService(store, source, logger)
	prewarmSvc := usecase.NewPrewarmService(predictionSvc, cfg.PrewarmDays, cfg.PrewarmMaxWorkers, logger)

	handler := httpapi.NewHandler(predictionSvc, prewarmSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeStore()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeStore, nil
}

// openPredictionStore picks the cache backend. An empty DB_URL selects the
// in-process store so the service stays runnable without Postgres.
func openPredictionStore(cfg config.Config, logger *logging.Logger) (prediction.Store, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("prediction cache backend", "backend", "memory")
		return memory.NewPredictionRepository(nil), func() error { return nil }, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("prediction cache backend", "backend", "postgres", "db_name", dbNameFromURL(dbURL))
	return postgres.NewPredictionRepository(db, nil), db.Close, nil
}

func newPredictionSource(cfg config.Config, logger *logging.Logger) *footballapi.Source {
	mode := footballapi.ModeOffline
	var client *footballapi.Client

	if cfg.FootballAPIEnabled && cfg.FootballAPIToken != "" {
		client = footballapi.NewClient(footballapi.ClientConfig{
			BaseURL:    cfg.FootballAPIBaseURL,
			Token:      cfg.FootballAPIToken,
			Timeout:    cfg.FootballAPITimeout,
			MaxRetries: cfg.FootballAPIMaxRetries,
			Logger:     logger.Named("footballapi"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FootballAPICircuitEnabled,
				FailureThreshold: cfg.FootballAPICircuitFailureCount,
				OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMaxReq,
			},
		})
		mode = footballapi.ModeLive
	}

	source := footballapi.NewSource(footballapi.SourceConfig{
		Mode:   mode,
		Client: client,
		Logger: logger.Named("footballapi"),
	})
	logger.Info("prediction source configured", "mode", string(source.Mode()))

	return source
}
