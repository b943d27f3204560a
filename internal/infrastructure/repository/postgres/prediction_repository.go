package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/id"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

const predictionsTable = "match_predictions"

// PredictionRepository stores cached prediction sets in Postgres. One row
// per match; a whole day is replaced in a single transaction so readers
// never observe a half-written generation.
type PredictionRepository struct {
	db    *sqlx.DB
	idGen id.Generator
	now   func() time.Time
}

func NewPredictionRepository(db *sqlx.DB, idGen id.Generator) *PredictionRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &PredictionRepository{
		db:    db,
		idGen: idGen,
		now:   time.Now,
	}
}

func (r *PredictionRepository) FindFresh(ctx context.Context, date string, asOf time.Time, ttl time.Duration) ([]prediction.Record, error) {
	cutoff := asOf.Add(-ttl).UTC()

	query, args, err := qb.Select("*").From(predictionsTable).
		Where(
			qb.Eq("match_date", date),
			qb.Gte("cached_at", cutoff),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fresh predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fresh predictions date=%s: %w", date, err)
	}

	out := make([]prediction.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// ReplaceAll swaps the cached set for one date. All inserted rows share a
// generation id and cache timestamp. An empty record set still clears the
// previous generation.
func (r *PredictionRepository) ReplaceAll(ctx context.Context, date string, records []prediction.Record) error {
	generationID, err := r.idGen.NewID()
	if err != nil {
		return fmt.Errorf("new generation id: %w", err)
	}
	cachedAt := r.now().UTC()

	deleteQuery, deleteArgs, err := qb.DeleteFrom(predictionsTable).
		Where(qb.Eq("match_date", date)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete predictions query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace predictions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete predictions date=%s: %w", date, err)
	}

	if len(records) > 0 {
		insertQuery, insertArgs, err := buildInsertPredictions(records, date, generationID, cachedAt)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert predictions date=%s count=%d: %w", date, len(records), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace predictions tx: %w", err)
	}

	return nil
}

func buildInsertPredictions(records []prediction.Record, date, generationID string, cachedAt time.Time) (string, []any, error) {
	columns, err := qb.ModelColumns(predictionInsertModel{})
	if err != nil {
		return "", nil, fmt.Errorf("derive prediction columns: %w", err)
	}

	builder := qb.InsertInto(predictionsTable).Columns(columns...)
	for _, record := range records {
		record.Date = date
		values, err := qb.ModelValues(insertModelFromDomain(record, generationID, cachedAt))
		if err != nil {
			return "", nil, fmt.Errorf("derive prediction values: %w", err)
		}
		builder.Values(values...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build insert predictions query: %w", err)
	}
	return query, args, nil
}
