package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

const maxJobRequestBytes = 64 << 10

type Handler struct {
	predictionService *usecase.PredictionService
	prewarmService    *usecase.PrewarmService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	predictionService *usecase.PredictionService,
	prewarmService *usecase.PrewarmService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictionService: predictionService,
		prewarmService:    prewarmService,
		logger:            logger,
		validator:         validator.New(),
	}
}

type predictionQueryParams struct {
	Date string `validate:"required,datetime=2006-01-02"`
	Team string `validate:"omitempty,max=100"`
}

type predictionDTO struct {
	Date          string   `json:"date"`
	HomeTeam      string   `json:"home_team"`
	AwayTeam      string   `json:"away_team"`
	HomeWinChance int      `json:"home_win_chance"`
	AwayWinChance int      `json:"away_win_chance"`
	DrawChance    int      `json:"draw_chance"`
	MatchTime     string   `json:"match_time"`
	Competition   string   `json:"competition"`
	Country       string   `json:"country,omitempty"`
	HomeWinOdds   *float64 `json:"home_win_odds,omitempty"`
	AwayWinOdds   *float64 `json:"away_win_odds,omitempty"`
	DrawOdds      *float64 `json:"draw_odds,omitempty"`
	APISource     string   `json:"api_source"`
	CachedAt      string   `json:"cached_at,omitempty"`
}

type predictionListDTO struct {
	Date        string          `json:"date"`
	Cached      bool            `json:"cached"`
	Count       int             `json:"count"`
	Predictions []predictionDTO `json:"predictions"`
}

type predictionStatsDTO struct {
	Date   string   `json:"date"`
	Cached bool     `json:"cached"`
	Stats  statsDTO `json:"stats"`
}

type statsDTO struct {
	TotalMatches            int            `json:"total_matches"`
	HighConfidenceMatches   int            `json:"high_confidence_matches"`
	MediumConfidenceMatches int            `json:"medium_confidence_matches"`
	CompetitionBreakdown    map[string]int `json:"competition_breakdown"`
	CountryBreakdown        map[string]int `json:"country_breakdown"`
	AverageHomeWinChance    int            `json:"average_home_win_chance"`
	OddsRange               oddsRangeDTO   `json:"odds_range"`
}

type oddsRangeDTO struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type prewarmJobRequest struct {
	Days       int `json:"days" validate:"omitempty,min=0,max=14"`
	MaxWorkers int `json:"max_workers" validate:"omitempty,min=0,max=4"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetPredictions serves the default filtered view: home favorites above
// the threshold, optionally narrowed by team.
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictions")
	defer span.End()

	params, err := h.parseQueryParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.Query(ctx, usecase.PredictionQueryInput{
		Date: params.Date,
		Team: params.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get predictions failed", "date", params.Date, "team", params.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queryResultToDTO(result))
}

// ListAllPredictions serves the unfiltered cached set for one date.
func (h *Handler) ListAllPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllPredictions")
	defer span.End()

	params, err := h.parseQueryParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.QueryAll(ctx, params.Date)
	if err != nil {
		h.logger.WarnContext(ctx, "list all predictions failed", "date", params.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queryResultToDTO(result))
}

func (h *Handler) GetPredictionStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionStats")
	defer span.End()

	params, err := h.parseQueryParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.Stats(ctx, params.Date)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction stats failed", "date", params.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionStatsDTO{
		Date:   result.Date,
		Cached: result.Cached,
		Stats: statsDTO{
			TotalMatches:            result.Stats.TotalMatches,
			HighConfidenceMatches:   result.Stats.HighConfidenceMatches,
			MediumConfidenceMatches: result.Stats.MediumConfidenceMatches,
			CompetitionBreakdown:    result.Stats.CompetitionBreakdown,
			CountryBreakdown:        result.Stats.CountryBreakdown,
			AverageHomeWinChance:    result.Stats.AverageHomeWinChance,
			OddsRange: oddsRangeDTO{
				Min:  result.Stats.OddsRange.Min,
				Max:  result.Stats.OddsRange.Max,
				Mean: result.Stats.OddsRange.Mean,
			},
		},
	})
}

func (h *Handler) RunPrewarmJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPrewarmJob")
	defer span.End()

	if h.prewarmService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prewarm service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodePrewarmRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.prewarmService.Run(ctx, usecase.PrewarmInput{
		Days:       req.Days,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run prewarm job failed", "days", req.Days, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) parseQueryParams(r *http.Request) (predictionQueryParams, error) {
	params := predictionQueryParams{
		Date: r.URL.Query().Get("date"),
		Team: r.URL.Query().Get("team"),
	}
	if err := h.validator.Struct(params); err != nil {
		return predictionQueryParams{}, fmt.Errorf("%w: date is required and must be formatted as YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	return params, nil
}

// decodePrewarmRequest tolerates an empty body so the job can be triggered
// with defaults by a bare POST.
func (h *Handler) decodePrewarmRequest(r *http.Request) (prewarmJobRequest, error) {
	var req prewarmJobRequest

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJobRequestBytes))
	if err != nil {
		return prewarmJobRequest{}, fmt.Errorf("%w: read request body", usecase.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return req, nil
	}

	if err := sonic.Unmarshal(raw, &req); err != nil {
		return prewarmJobRequest{}, fmt.Errorf("%w: request body must be valid JSON", usecase.ErrInvalidInput)
	}
	if err := h.validator.Struct(req); err != nil {
		return prewarmJobRequest{}, fmt.Errorf("%w: days must be 0-14 and max_workers 0-4", usecase.ErrInvalidInput)
	}

	return req, nil
}

func queryResultToDTO(result usecase.PredictionQueryResult) predictionListDTO {
	items := make([]predictionDTO, 0, len(result.Predictions))
	for _, record := range result.Predictions {
		items = append(items, recordToDTO(record))
	}
	return predictionListDTO{
		Date:        result.Date,
		Cached:      result.Cached,
		Count:       result.Count,
		Predictions: items,
	}
}

func recordToDTO(record prediction.Record) predictionDTO {
	dto := predictionDTO{
		Date:          record.Date,
		HomeTeam:      record.HomeTeam,
		AwayTeam:      record.AwayTeam,
		HomeWinChance: record.HomeWinChance,
		AwayWinChance: record.AwayWinChance,
		DrawChance:    record.DrawChance,
		MatchTime:     record.MatchTime,
		Competition:   record.Competition,
		Country:       record.Country,
		HomeWinOdds:   record.HomeWinOdds,
		AwayWinOdds:   record.AwayWinOdds,
		DrawOdds:      record.DrawOdds,
		APISource:     record.APISource,
	}
	if !record.CachedAt.IsZero() {
		dto.CachedAt = record.CachedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
