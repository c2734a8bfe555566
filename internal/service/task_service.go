// Package service contains the application services that orchestrate the
// domain policy and the persistence gateways.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskward/internal/domain"
	"taskward/internal/domain/lifecycle"
	"taskward/internal/store"
)

// taskCounterName is the named sequence used for human-readable task numbers.
const taskCounterName = "task_number"

// CreateTaskInput carries the client-supplied fields for task creation.
// Status and StartTime are requests, not final values; the lifecycle policy
// decides what is persisted.
type CreateTaskInput struct {
	Priority  domain.TaskPriority
	Deadline  time.Time
	Hours     float64
	Details   string
	Status    domain.TaskStatus
	StartTime *time.Time
}

// UpdateTaskInput carries the client-supplied fields for a task update.
// Nil pointers mean "leave unchanged".
type UpdateTaskInput struct {
	Priority  *domain.TaskPriority
	Deadline  *time.Time
	Hours     *float64
	Details   *string
	Status    *domain.TaskStatus
	StartTime *time.Time
}

// TaskService implements the owner-scoped task operations: CRUD, batch
// status updates, and the expiry sweep. Every mutation routes status and
// start-time decisions through the lifecycle policy so create, update and
// batch update agree on the rules.
type TaskService struct {
	tasks    store.TaskStore
	counters store.CounterStore
	logger   *slog.Logger
	now      func() time.Time // Injectable for testing
}

// NewTaskService creates a new TaskService.
// If logger is nil, a default logger will be used.
func NewTaskService(
	tasks store.TaskStore,
	counters store.CounterStore,
	logger *slog.Logger,
) *TaskService {
	if tasks == nil {
		panic("task store cannot be nil")
	}
	if counters == nil {
		panic("counter store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		tasks:    tasks,
		counters: counters,
		logger:   logger.With(slog.String("component", "task_service")),
		now:      time.Now,
	}
}

// Create builds a task for ownerID from the input, derives its effective
// status and start time through the lifecycle policy (no previous state on
// create), allocates a sequential task number, and persists it.
func (s *TaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	now := s.now()

	task, err := domain.NewTask(ownerID, input.Priority, lifecycle.FixedDate(input.Deadline), input.Hours, input.Details)
	if err != nil {
		return nil, err
	}

	task.Status = lifecycle.DecideStatus(input.Status, task.Deadline, now)
	task.StartTime, err = lifecycle.DecideStartTime(task.Status, input.StartTime, nil, "", now)
	if err != nil {
		return nil, err
	}

	task.Number, err = s.counters.Next(ctx, taskCounterName)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task number: %w", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Get fetches a single task for ownerID. A task owned by another user
// yields ErrTaskNotOwned. Before returning, an opportunistic expiry check
// runs: a task whose deadline date has passed is flipped to Expired and the
// flip persisted, so a stale task never reports itself non-expired on the
// detail path.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != ownerID {
		return nil, ErrTaskNotOwned
	}

	now := s.now()
	if task.Status != domain.TaskStatusExpired && lifecycle.IsBeforeToday(task.Deadline, now) {
		task.Status = domain.TaskStatusExpired
		task.UpdatedAt = now.UTC()
		if err := s.tasks.Update(ctx, task); err != nil {
			// Advisory flip; the read itself still succeeds.
			s.logger.Warn("failed to persist opportunistic expiry",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
	}

	return task, nil
}

// List returns the owner's tasks matching the filter plus the total count.
func (s *TaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskListFilter,
) ([]*domain.Task, int, error) {
	return s.tasks.List(ctx, ownerID, filter)
}

// Update applies the input to an existing task owned by ownerID. The
// effective status and start time are re-derived through the lifecycle
// policy with the stored task as previous state, so the same rules hold on
// update as on create.
func (s *TaskService) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != ownerID {
		return nil, ErrTaskNotOwned
	}

	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Deadline != nil {
		task.Deadline = lifecycle.FixedDate(*input.Deadline)
	}
	if input.Hours != nil {
		task.Hours = *input.Hours
	}
	if input.Details != nil {
		task.Details = *input.Details
	}

	// Absent status means "keep the current one"; the policy still gets the
	// final say against the (possibly updated) deadline.
	requestedStatus := task.Status
	if input.Status != nil {
		requestedStatus = *input.Status
	}

	now := s.now()
	previousStatus := task.Status
	previousStart := task.StartTime

	task.Status = lifecycle.DecideStatus(requestedStatus, task.Deadline, now)
	task.StartTime, err = lifecycle.DecideStartTime(
		task.Status, input.StartTime, previousStart, previousStatus, now,
	)
	if err != nil {
		return nil, err
	}

	task.UpdatedAt = now.UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// BatchUpdateStatus moves every task in ids that the caller owns to the
// requested status, deriving each task's start time individually from its
// prior state. Requesting Expired is rejected outright. IDs that are not
// found or not owned by the caller are silently excluded from the result;
// the batch is not transactional, and a per-task store failure only drops
// that task from the returned set (retry is idempotent since the policy is
// deterministic).
func (s *TaskService) BatchUpdateStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	ids []uuid.UUID,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	if status == domain.TaskStatusExpired {
		return nil, ErrBatchExpiredStatus
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	tasks, err := s.tasks.GetOwnedByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := make([]*domain.Task, 0, len(tasks))

	for _, task := range tasks {
		previousStatus := task.Status
		previousStart := task.StartTime

		task.Status = lifecycle.DecideStatus(status, task.Deadline, now)
		task.StartTime, err = lifecycle.DecideStartTime(
			task.Status, nil, previousStart, previousStatus, now,
		)
		if err != nil {
			s.logger.Warn("skipping task in batch update",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			continue
		}

		task.UpdatedAt = now.UTC()
		if err := s.tasks.Update(ctx, task); err != nil {
			s.logger.Warn("failed to update task in batch",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			continue
		}

		updated = append(updated, task)
	}

	return updated, nil
}

// Delete removes a task owned by ownerID.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if task.UserID != ownerID {
		return ErrTaskNotOwned
	}

	return s.tasks.Delete(ctx, taskID)
}

// SweepExpired flips the owner's overdue tasks to Expired in one bulk
// update and returns the number transitioned. Failures are logged and
// swallowed: the sweep is advisory maintenance and must never block the
// surrounding request.
func (s *TaskService) SweepExpired(ctx context.Context, ownerID uuid.UUID) int64 {
	boundary := lifecycle.DateOnly(s.now())

	count, err := s.tasks.ExpireOverdue(ctx, ownerID, boundary)
	if err != nil {
		s.logger.Warn("expiry sweep failed",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return 0
	}

	if count > 0 {
		s.logger.Info("expiry sweep transitioned tasks",
			slog.Int64("count", count),
			slog.String("user_id", ownerID.String()))
	}

	return count
}
