package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

// CacheTTL is how long a cached day of predictions stays servable before a
// query triggers a provider refresh.
const CacheTTL = 2 * time.Hour

// HomeWinThreshold is the exclusive lower bound for the default filtered
// view: only home win chances strictly above it pass.
const HomeWinThreshold = prediction.HomeWinThreshold

// PredictionSource supplies the normalized prediction set for one date.
// Implementations absorb provider failures and always return a usable
// slice, so the method carries no error.
type PredictionSource interface {
	FetchPredictions(ctx context.Context, date string) []prediction.Record
}

type PredictionService struct {
	store  prediction.Store
	source PredictionSource
	logger *logging.Logger
	flight resilience.SingleFlight[[]prediction.Record]
	now    func() time.Time
}

func NewPredictionService(store prediction.Store, source PredictionSource, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		store:  store,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

type PredictionQueryInput struct {
	// Date selects the match day, YYYY-MM-DD. Required.
	Date string
	// Team narrows results to matches whose home or away team name
	// contains the value, case-insensitively.
	Team string
}

type PredictionQueryResult struct {
	Date        string              `json:"date"`
	Cached      bool                `json:"cached"`
	Count       int                 `json:"count"`
	Predictions []prediction.Record `json:"predictions"`
}

type PredictionStatsResult struct {
	Date   string           `json:"date"`
	Cached bool             `json:"cached"`
	Stats  prediction.Stats `json:"stats"`
}

// Query returns the filtered view for one date: only matches with a home
// win chance strictly above the threshold, optionally narrowed by team.
func (s *PredictionService) Query(ctx context.Context, input PredictionQueryInput) (PredictionQueryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Query")
	defer span.End()

	date, err := s.resolveDate(input.Date)
	if err != nil {
		return PredictionQueryResult{}, err
	}

	records, cached, err := s.loadPredictions(ctx, date)
	if err != nil {
		return PredictionQueryResult{}, err
	}

	filtered := prediction.FilterHomeFavorites(records)
	filtered = prediction.FilterByTeam(filtered, input.Team)

	return PredictionQueryResult{
		Date:        date,
		Cached:      cached,
		Count:       len(filtered),
		Predictions: filtered,
	}, nil
}

// QueryAll returns every cached prediction for one date without the
// threshold filter.
func (s *PredictionService) QueryAll(ctx context.Context, rawDate string) (PredictionQueryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.QueryAll")
	defer span.End()

	date, err := s.resolveDate(rawDate)
	if err != nil {
		return PredictionQueryResult{}, err
	}

	records, cached, err := s.loadPredictions(ctx, date)
	if err != nil {
		return PredictionQueryResult{}, err
	}

	return PredictionQueryResult{
		Date:        date,
		Cached:      cached,
		Count:       len(records),
		Predictions: records,
	}, nil
}

// Stats aggregates the full unfiltered set for one date.
func (s *PredictionService) Stats(ctx context.Context, rawDate string) (PredictionStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Stats")
	defer span.End()

	date, err := s.resolveDate(rawDate)
	if err != nil {
		return PredictionStatsResult{}, err
	}

	records, cached, err := s.loadPredictions(ctx, date)
	if err != nil {
		return PredictionStatsResult{}, err
	}

	return PredictionStatsResult{
		Date:   date,
		Cached: cached,
		Stats:  prediction.Summarize(records),
	}, nil
}

// Refresh forces a provider fetch and cache replace for one date,
// regardless of freshness. Unlike the query path a store failure is
// surfaced, so job callers can report it.
func (s *PredictionService) Refresh(ctx context.Context, rawDate string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Refresh")
	defer span.End()

	date, err := s.resolveDate(rawDate)
	if err != nil {
		return 0, err
	}

	records, err, _ := s.flight.Do(date, func() ([]prediction.Record, error) {
		return s.refresh(ctx, date)
	})
	if err != nil {
		return len(records), err
	}
	return len(records), nil
}

// loadPredictions serves from the cache store when a fresh generation
// exists, otherwise refreshes from the provider. Concurrent misses for the
// same date collapse into one refresh. Store failures never block serving:
// a read failure counts as a miss and a write failure is logged while the
// fetched records are still returned.
func (s *PredictionService) loadPredictions(ctx context.Context, date string) ([]prediction.Record, bool, error) {
	fresh, err := s.store.FindFresh(ctx, date, s.now(), CacheTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, treating as miss", "date", date, "error", err)
	}
	if len(fresh) > 0 {
		return fresh, true, nil
	}

	records, err, shared := s.flight.Do(date, func() ([]prediction.Record, error) {
		return s.refresh(ctx, date)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "cache write failed, serving uncached records", "date", date, "error", err)
	}
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight refresh", "date", date)
	}

	return records, false, nil
}

// refresh always returns the fetched records, with a non-nil error when
// persisting them failed. An empty fetch result is not written; a day with
// no matches is a valid outcome, not a generation.
func (s *PredictionService) refresh(ctx context.Context, date string) ([]prediction.Record, error) {
	records := s.source.FetchPredictions(ctx, date)
	if len(records) == 0 {
		s.logger.InfoContext(ctx, "upstream returned no predictions", "date", date)
		return records, nil
	}
	if err := s.store.ReplaceAll(ctx, date, records); err != nil {
		return records, fmt.Errorf("replace cached predictions date=%s: %w", date, err)
	}

	s.logger.InfoContext(ctx, "refreshed prediction cache", "date", date, "records", len(records))
	return records, nil
}

func (s *PredictionService) resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !prediction.ValidDate(raw) {
		return "", fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
	}
	return raw, nil
}
