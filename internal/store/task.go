package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskward/internal/domain"
)

// SortDirection names the two list orderings.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TaskListFilter describes the filtering, sorting and pagination applied to
// a task listing. Statuses and Priorities are each OR'd internally and AND'd
// against each other; empty slices mean "no filter on this field".
type TaskListFilter struct {
	Statuses   []domain.TaskStatus
	Priorities []domain.TaskPriority
	SortField  string
	SortDir    SortDirection
	Page       int // 1-based
	Limit      int
}

// TaskStore defines the interface for task data persistence. All read and
// write operations other than GetByID are scoped to the owning user;
// ownership enforcement for single-task operations lives in the service
// layer, which compares the fetched task's UserID against the caller.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetOwnedByIDs retrieves the subset of the given task IDs that exist
	// and are owned by ownerID. IDs that do not resolve are simply absent
	// from the result; this is not an error.
	GetOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Task, error)

	// List retrieves the owner's tasks matching the filter, along with the
	// total count across all pages.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskListFilter) ([]*domain.Task, int, error)

	// Update persists the task's mutable fields (priority, deadline, hours,
	// details, status, start time). Returns ErrTaskNotFound if the task does
	// not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExpireOverdue flips every task of ownerID whose deadline lies before
	// boundary and whose status is not already Expired to Expired, in one
	// bulk update. Returns the number of tasks transitioned.
	ExpireOverdue(ctx context.Context, ownerID uuid.UUID, boundary time.Time) (int64, error)

	// ExpireAllOverdue is ExpireOverdue across all users, for interval
	// housekeeping.
	ExpireAllOverdue(ctx context.Context, boundary time.Time) (int64, error)
}
