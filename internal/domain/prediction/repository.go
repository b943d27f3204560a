package prediction

import (
	"context"
	"time"
)

// Store is the time-bounded prediction cache keyed by match date.
type Store interface {
	// FindFresh returns every record for date whose CachedAt is within ttl
	// of asOf, in insertion order.
	FindFresh(ctx context.Context, date string, asOf time.Time, ttl time.Duration) ([]Record, error)

	// ReplaceAll atomically swaps the stored generation for date: every
	// existing record is deleted and records are inserted with a shared
	// CachedAt timestamp and generation id.
	ReplaceAll(ctx context.Context, date string, records []Record) error
}
