package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskward/internal/domain"
	"taskward/internal/domain/lifecycle"
	"taskward/internal/mocks"
	"taskward/internal/store"
)

var serviceNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestService(tasks *mocks.MockTaskStore, counters *mocks.MockCounterStore) *TaskService {
	svc := NewTaskService(tasks, counters, nil)
	svc.now = func() time.Time { return serviceNow }
	return svc
}

func futureDeadline(days int) time.Time {
	return lifecycle.FixedDate(serviceNow.AddDate(0, 0, days))
}

func storedTask(ownerID uuid.UUID, status domain.TaskStatus, deadline time.Time) *domain.Task {
	return &domain.Task{
		ID:        uuid.New(),
		Number:    7,
		UserID:    ownerID,
		Priority:  domain.TaskPriorityMedium,
		Deadline:  deadline,
		Hours:     3,
		Details:   "stored task",
		Status:    status,
		CreatedAt: serviceNow.Add(-48 * time.Hour),
		UpdatedAt: serviceNow.Add(-48 * time.Hour),
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("assigns sequential number and defaults to pending", func(t *testing.T) {
		t.Parallel()

		var created *domain.Task
		tasks := &mocks.MockTaskStore{
			CreateFn: func(_ context.Context, task *domain.Task) error {
				created = task
				return nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		task, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Priority: domain.TaskPriorityHigh,
			Deadline: futureDeadline(3),
			Hours:    2,
			Details:  "new task",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, int64(1), task.Number)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Nil(t, task.StartTime)
	})

	t.Run("past deadline yields expired on create", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})

		task, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Priority: domain.TaskPriorityLow,
			Deadline: futureDeadline(-2),
			Hours:    1,
			Details:  "already overdue",
			Status:   domain.TaskStatusPending,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusExpired, task.Status)
	})

	t.Run("in progress without start defaults start to today", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})

		task, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Priority: domain.TaskPriorityHigh,
			Deadline: futureDeadline(3),
			Hours:    2,
			Details:  "starting now",
			Status:   domain.TaskStatusInProgress,
		})

		require.NoError(t, err)
		require.NotNil(t, task.StartTime)
		assert.Equal(t, lifecycle.FixedDate(serviceNow), *task.StartTime)
	})

	t.Run("start time before today is rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})
		yesterday := futureDeadline(-1)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Priority:  domain.TaskPriorityHigh,
			Deadline:  futureDeadline(3),
			Hours:     2,
			Details:   "bad start",
			Status:    domain.TaskStatusInProgress,
			StartTime: &yesterday,
		})

		assert.ErrorIs(t, err, lifecycle.ErrStartTimeBeforeToday)
	})

	t.Run("counter failure aborts creation", func(t *testing.T) {
		t.Parallel()

		counterErr := errors.New("sequence unavailable")
		counters := &mocks.MockCounterStore{
			NextFn: func(_ context.Context, _ string) (int64, error) {
				return 0, counterErr
			},
		}
		svc := newTestService(&mocks.MockTaskStore{}, counters)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Priority: domain.TaskPriorityHigh,
			Deadline: futureDeadline(3),
			Hours:    2,
			Details:  "no number",
		})

		assert.ErrorIs(t, err, counterErr)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("returns owned task", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		task, err := svc.Get(context.Background(), ownerID, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, task.ID)
	})

	t.Run("rejects task owned by another user", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(uuid.New(), domain.TaskStatusPending, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		_, err := svc.Get(context.Background(), ownerID, existing.ID)

		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})

	t.Run("flips and persists stale overdue task", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusInProgress, futureDeadline(-1))
		var persisted *domain.Task
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
			UpdateFn: func(_ context.Context, task *domain.Task) error {
				persisted = task
				return nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		task, err := svc.Get(context.Background(), ownerID, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusExpired, task.Status)
		require.NotNil(t, persisted)
		assert.Equal(t, domain.TaskStatusExpired, persisted.Status)
	})

	t.Run("persist failure of the expiry flip does not fail the read", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(-1))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
			UpdateFn: func(_ context.Context, _ *domain.Task) error {
				return errors.New("db unavailable")
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		task, err := svc.Get(context.Background(), ownerID, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusExpired, task.Status)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("absent status keeps current status through the policy", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusCompleted, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		hours := 6.0
		task, err := svc.Update(context.Background(), ownerID, existing.ID, UpdateTaskInput{
			Hours: &hours,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		assert.Equal(t, 6.0, task.Hours)
	})

	t.Run("moving a deadline into the past expires the task", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		past := futureDeadline(-1)
		task, err := svc.Update(context.Background(), ownerID, existing.ID, UpdateTaskInput{
			Deadline: &past,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusExpired, task.Status)
	})

	t.Run("reopening an expired task after extending the deadline", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusExpired, futureDeadline(-3))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		future := futureDeadline(5)
		status := domain.TaskStatusInProgress
		task, err := svc.Update(context.Background(), ownerID, existing.ID, UpdateTaskInput{
			Deadline: &future,
			Status:   &status,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		require.NotNil(t, task.StartTime)
		assert.Equal(t, lifecycle.FixedDate(serviceNow), *task.StartTime)
	})

	t.Run("moving to pending clears the start time", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusInProgress, futureDeadline(2))
		start := lifecycle.FixedDate(serviceNow)
		existing.StartTime = &start

		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		status := domain.TaskStatusPending
		task, err := svc.Update(context.Background(), ownerID, existing.ID, UpdateTaskInput{
			Status: &status,
		})

		require.NoError(t, err)
		assert.Nil(t, task.StartTime)
	})

	t.Run("ownership is enforced before any mutation", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(uuid.New(), domain.TaskStatusPending, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
			UpdateFn: func(_ context.Context, _ *domain.Task) error {
				t.Fatal("update must not be called for a foreign task")
				return nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		status := domain.TaskStatusCompleted
		_, err := svc.Update(context.Background(), ownerID, existing.ID, UpdateTaskInput{
			Status: &status,
		})

		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})
}

func TestTaskServiceBatchUpdateStatus(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("rejects expired as a target status", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})

		_, err := svc.BatchUpdateStatus(
			context.Background(), ownerID, []uuid.UUID{uuid.New()}, domain.TaskStatusExpired,
		)

		assert.ErrorIs(t, err, ErrBatchExpiredStatus)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})

		_, err := svc.BatchUpdateStatus(
			context.Background(), ownerID, []uuid.UUID{uuid.New()}, "Done",
		)

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("updates only resolved tasks and skips store failures", func(t *testing.T) {
		t.Parallel()

		good := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(2))
		failing := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(2))

		tasks := &mocks.MockTaskStore{
			GetOwnedByIDsFn: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]*domain.Task, error) {
				return []*domain.Task{good, failing}, nil
			},
			UpdateFn: func(_ context.Context, task *domain.Task) error {
				if task.ID == failing.ID {
					return errors.New("write failed")
				}
				return nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		updated, err := svc.BatchUpdateStatus(
			context.Background(), ownerID,
			[]uuid.UUID{good.ID, failing.ID, uuid.New()},
			domain.TaskStatusCompleted,
		)

		require.NoError(t, err)
		require.Len(t, updated, 1)
		assert.Equal(t, good.ID, updated[0].ID)
		assert.Equal(t, domain.TaskStatusCompleted, updated[0].Status)
	})

	t.Run("past deadline overrides the requested status per task", func(t *testing.T) {
		t.Parallel()

		overdue := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(-1))
		tasks := &mocks.MockTaskStore{
			GetOwnedByIDsFn: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]*domain.Task, error) {
				return []*domain.Task{overdue}, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		updated, err := svc.BatchUpdateStatus(
			context.Background(), ownerID, []uuid.UUID{overdue.ID}, domain.TaskStatusCompleted,
		)

		require.NoError(t, err)
		require.Len(t, updated, 1)
		assert.Equal(t, domain.TaskStatusExpired, updated[0].Status)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("deletes owned task", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(ownerID, domain.TaskStatusPending, futureDeadline(2))
		deleted := false
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
			DeleteFn: func(_ context.Context, _ uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		require.NoError(t, svc.Delete(context.Background(), ownerID, existing.ID))
		assert.True(t, deleted)
	})

	t.Run("rejects deleting a foreign task", func(t *testing.T) {
		t.Parallel()

		existing := storedTask(uuid.New(), domain.TaskStatusPending, futureDeadline(2))
		tasks := &mocks.MockTaskStore{
			GetByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
				return existing, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		err := svc.Delete(context.Background(), ownerID, existing.ID)
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})

	t.Run("missing task surfaces not found", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mocks.MockTaskStore{}, &mocks.MockCounterStore{})

		err := svc.Delete(context.Background(), ownerID, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceSweepExpired(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("passes the start-of-day boundary and returns the count", func(t *testing.T) {
		t.Parallel()

		var gotBoundary time.Time
		tasks := &mocks.MockTaskStore{
			ExpireOverdueFn: func(_ context.Context, _ uuid.UUID, boundary time.Time) (int64, error) {
				gotBoundary = boundary
				return 3, nil
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		count := svc.SweepExpired(context.Background(), ownerID)

		assert.Equal(t, int64(3), count)
		assert.Equal(t, lifecycle.DateOnly(serviceNow), gotBoundary)
	})

	t.Run("swallows store failures", func(t *testing.T) {
		t.Parallel()

		tasks := &mocks.MockTaskStore{
			ExpireOverdueFn: func(_ context.Context, _ uuid.UUID, _ time.Time) (int64, error) {
				return 0, errors.New("db unavailable")
			},
		}
		svc := newTestService(tasks, &mocks.MockCounterStore{})

		assert.Equal(t, int64(0), svc.SweepExpired(context.Background(), ownerID))
	})
}
