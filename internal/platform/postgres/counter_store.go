package postgres

import (
	"context"
	"log/slog"

	"taskward/internal/store"
)

// CounterStore implements the store.CounterStore interface using a
// PostgreSQL database. Allocation is a single atomic upsert, so no
// client-side locking is needed even under concurrent creates.
type CounterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCounterStore creates a new PostgreSQL implementation of the
// CounterStore interface.
func NewCounterStore(db store.DBTX, logger *slog.Logger) *CounterStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CounterStore{
		db:     db,
		logger: logger.With(slog.String("component", "counter_store")),
	}
}

// Ensure CounterStore implements store.CounterStore interface
var _ store.CounterStore = (*CounterStore)(nil)

// Next implements store.CounterStore.Next
func (s *CounterStore) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var value int64
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		s.logger.Error("failed to allocate counter value",
			slog.String("error", err.Error()),
			slog.String("counter", name))
		return 0, err
	}

	return value, nil
}
