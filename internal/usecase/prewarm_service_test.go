package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

func TestPrewarmService_Run(t *testing.T) {
	store := newStubStore()
	source := &stubSource{records: map[string][]prediction.Record{
		"2025-08-12": {rec("Deportivo Cali", 56)},
		"2025-08-13": {rec("Junior", 40), rec("Millonarios", 36)},
	}}

	predictions := NewPredictionService(store, source, nil)
	predictions.now = fixedClock(time.Date(2025, 8, 12, 6, 0, 0, 0, time.UTC))

	svc := NewPrewarmService(predictions, 1, 1, nil)
	svc.now = predictions.now

	got, err := svc.Run(context.Background(), PrewarmInput{Days: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got.TaskCount != 2 || got.SuccessCount != 2 || got.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if len(got.Dates) != 2 || got.Dates[0].Date != "2025-08-12" || got.Dates[1].Date != "2025-08-13" {
		t.Fatalf("dates must be consecutive and sorted: %+v", got.Dates)
	}
	if got.Dates[1].Records != 2 {
		t.Fatalf("unexpected record count for second day: %+v", got.Dates[1])
	}
	if len(store.replaced["2025-08-12"]) != 1 || len(store.replaced["2025-08-13"]) != 2 {
		t.Fatalf("both days must be written to the store: %+v", store.replaced)
	}
}

func TestPrewarmService_Run_DefaultsDays(t *testing.T) {
	store := newStubStore()
	source := &stubSource{records: map[string][]prediction.Record{}}

	predictions := NewPredictionService(store, source, nil)
	predictions.now = fixedClock(time.Date(2025, 8, 12, 6, 0, 0, 0, time.UTC))

	svc := NewPrewarmService(predictions, 3, 1, nil)
	svc.now = predictions.now

	got, err := svc.Run(context.Background(), PrewarmInput{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.TaskCount != 3 {
		t.Fatalf("zero days must fall back to the configured default: %+v", got)
	}
}

func TestPrewarmService_Run_ReportsFailures(t *testing.T) {
	store := newStubStore()
	store.replaceErr = errors.New("disk full")
	source := &stubSource{records: map[string][]prediction.Record{
		"2025-08-12": {rec("Deportivo Cali", 56)},
	}}

	predictions := NewPredictionService(store, source, nil)
	predictions.now = fixedClock(time.Date(2025, 8, 12, 6, 0, 0, 0, time.UTC))

	svc := NewPrewarmService(predictions, 1, 1, nil)
	svc.now = predictions.now

	got, err := svc.Run(context.Background(), PrewarmInput{Days: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.FailedCount != 1 || got.SuccessCount != 0 {
		t.Fatalf("store failures must be reported per date: %+v", got)
	}
	if got.Dates[0].Status != prewarmStatusFailed || got.Dates[0].Message == "" {
		t.Fatalf("failed row must carry a message: %+v", got.Dates[0])
	}
}

func TestPrewarmService_Run_UsesConfiguredWorkerDefault(t *testing.T) {
	predictions := NewPredictionService(newStubStore(), &stubSource{}, nil)
	predictions.now = fixedClock(time.Date(2025, 8, 12, 6, 0, 0, 0, time.UTC))

	svc := NewPrewarmService(predictions, 1, 4, nil)
	svc.now = predictions.now

	got, err := svc.Run(context.Background(), PrewarmInput{Days: 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.WorkerCount != 4 {
		t.Fatalf("zero max_workers must fall back to the configured default: %+v", got)
	}

	got, err = svc.Run(context.Background(), PrewarmInput{Days: 4, MaxWorkers: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.WorkerCount != 1 {
		t.Fatalf("an explicit max_workers must override the default: %+v", got)
	}
}

func TestPrewarmService_Run_RejectsExcessiveDays(t *testing.T) {
	predictions := NewPredictionService(newStubStore(), &stubSource{}, nil)
	svc := NewPrewarmService(predictions, 1, 1, nil)

	_, err := svc.Run(context.Background(), PrewarmInput{Days: 60})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
