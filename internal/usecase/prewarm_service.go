package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const (
	prewarmStatusSuccess = "success"
	prewarmStatusFailed  = "failed"

	maxPrewarmDays    = 14
	maxPrewarmWorkers = 4
)

type PrewarmInput struct {
	// Days is how many consecutive days to warm, starting today. Zero
	// falls back to the configured default.
	Days       int
	MaxWorkers int
}

type PrewarmResult struct {
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Dates        []PrewarmDateResult `json:"dates"`
}

type PrewarmDateResult struct {
	Date       string `json:"date"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// PrewarmService refreshes the prediction cache for upcoming days so the
// first reader of a date does not pay the provider round trip.
type PrewarmService struct {
	predictions    *PredictionService
	logger         *logging.Logger
	defaultDays    int
	defaultWorkers int
	now            func() time.Time
}

func NewPrewarmService(predictions *PredictionService, defaultDays, defaultWorkers int, logger *logging.Logger) *PrewarmService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultDays < 1 {
		defaultDays = 1
	}
	if defaultWorkers < 1 {
		defaultWorkers = 2
	}
	if defaultWorkers > maxPrewarmWorkers {
		defaultWorkers = maxPrewarmWorkers
	}
	return &PrewarmService{
		predictions:    predictions,
		logger:         logger,
		defaultDays:    defaultDays,
		defaultWorkers: defaultWorkers,
		now:            time.Now,
	}
}

func (s *PrewarmService) Run(ctx context.Context, input PrewarmInput) (PrewarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrewarmService.Run")
	defer span.End()

	if s.predictions == nil {
		return PrewarmResult{}, fmt.Errorf("%w: prediction service is not configured", ErrDependencyUnavailable)
	}

	days, err := s.normalizeDays(input.Days)
	if err != nil {
		return PrewarmResult{}, err
	}

	today := s.now().UTC()
	dates := make([]string, 0, days)
	for offset := 0; offset < days; offset++ {
		dates = append(dates, today.AddDate(0, 0, offset).Format(prediction.DateLayout))
	}

	workerCount := s.normalizeWorkerCount(input.MaxWorkers, len(dates))
	result := PrewarmResult{
		TaskCount:   len(dates),
		WorkerCount: workerCount,
		Dates:       make([]PrewarmDateResult, 0, len(dates)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return PrewarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan PrewarmDateResult, len(dates))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, date := range dates {
		date := date
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := PrewarmDateResult{Date: date}

			records, refreshErr := s.predictions.Refresh(ctx, date)
			row.Records = records
			row.DurationMs = time.Since(start).Milliseconds()
			if refreshErr != nil {
				row.Status = prewarmStatusFailed
				row.Message = refreshErr.Error()
				failedCount.Add(1)
			} else {
				row.Status = prewarmStatusSuccess
				successCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return PrewarmResult{}, fmt.Errorf("submit prewarm task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Dates = append(result.Dates, row)
	}
	sort.SliceStable(result.Dates, func(i, j int) bool {
		return result.Dates[i].Date < result.Dates[j].Date
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "prewarm run finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"workers", result.WorkerCount,
	)
	return result, nil
}

func (s *PrewarmService) normalizeDays(value int) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}
	if value == 0 {
		value = s.defaultDays
	}
	if value > maxPrewarmDays {
		return 0, fmt.Errorf("%w: days must not exceed %d", ErrInvalidInput, maxPrewarmDays)
	}
	return value, nil
}

func (s *PrewarmService) normalizeWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = s.defaultWorkers
	}
	if value > maxPrewarmWorkers {
		value = maxPrewarmWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
