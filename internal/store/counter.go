package store

import "context"

// CounterStore allocates values from named monotonically-incrementing
// sequences. Used to assign human-readable sequential task numbers.
type CounterStore interface {
	// Next atomically increments the named counter and returns the new
	// value. The first allocation for a name returns 1.
	Next(ctx context.Context, name string) (int64, error)
}
