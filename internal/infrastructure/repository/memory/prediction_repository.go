package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/id"
)

// PredictionRepository is the in-process cache store used when no database
// is configured. It mirrors the Postgres behavior, including the shared
// generation id and cache timestamp per replace.
type PredictionRepository struct {
	mu     sync.RWMutex
	byDate map[string][]prediction.Record
	idGen  id.Generator
	now    func() time.Time
}

func NewPredictionRepository(idGen id.Generator) *PredictionRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &PredictionRepository{
		byDate: make(map[string][]prediction.Record),
		idGen:  idGen,
		now:    time.Now,
	}
}

func (r *PredictionRepository) FindFresh(_ context.Context, date string, asOf time.Time, ttl time.Duration) ([]prediction.Record, error) {
	cutoff := asOf.Add(-ttl)

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byDate[date]
	out := make([]prediction.Record, 0, len(items))
	for _, item := range items {
		if item.CachedAt.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *PredictionRepository) ReplaceAll(_ context.Context, date string, records []prediction.Record) error {
	generationID, err := r.idGen.NewID()
	if err != nil {
		return err
	}
	cachedAt := r.now().UTC()

	stored := make([]prediction.Record, 0, len(records))
	for _, record := range records {
		record.Date = date
		record.GenerationID = generationID
		record.CachedAt = cachedAt
		stored = append(stored, record)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byDate[date] = stored
	return nil
}
