package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskward/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deadline := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates a valid pending task", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(userID, domain.TaskPriorityHigh, deadline, 4, "write report")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Nil(t, task.StartTime)
		assert.False(t, task.CreatedAt.IsZero())
	})

	tests := []struct {
		name     string
		userID   uuid.UUID
		priority domain.TaskPriority
		deadline time.Time
		hours    float64
		details  string
		wantErr  error
	}{
		{
			name:     "missing owner",
			userID:   uuid.Nil,
			priority: domain.TaskPriorityLow,
			deadline: deadline,
			hours:    2,
			details:  "x",
			wantErr:  domain.ErrTaskUserIDEmpty,
		},
		{
			name:     "unknown priority",
			userID:   userID,
			priority: "Urgent",
			deadline: deadline,
			hours:    2,
			details:  "x",
			wantErr:  domain.ErrInvalidPriority,
		},
		{
			name:     "zero deadline",
			userID:   userID,
			priority: domain.TaskPriorityLow,
			hours:    2,
			details:  "x",
			wantErr:  domain.ErrTaskDeadlineEmpty,
		},
		{
			name:     "hours below minimum",
			userID:   userID,
			priority: domain.TaskPriorityLow,
			deadline: deadline,
			hours:    0.5,
			details:  "x",
			wantErr:  domain.ErrTaskHoursInvalid,
		},
		{
			name:     "empty details",
			userID:   userID,
			priority: domain.TaskPriorityLow,
			deadline: deadline,
			hours:    2,
			wantErr:  domain.ErrTaskDetailsEmpty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.NewTask(tt.userID, tt.priority, tt.deadline, tt.hours, tt.details)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusInProgress,
		domain.TaskStatusCompleted,
		domain.TaskStatusExpired,
	} {
		assert.True(t, status.IsValid(), string(status))
	}

	assert.False(t, domain.TaskStatus("Done").IsValid())
	assert.False(t, domain.TaskStatus("").IsValid())
}

func TestTaskPriorityIsValid(t *testing.T) {
	t.Parallel()

	for _, priority := range []domain.TaskPriority{
		domain.TaskPriorityHigh,
		domain.TaskPriorityMedium,
		domain.TaskPriorityLow,
	} {
		assert.True(t, priority.IsValid(), string(priority))
	}

	assert.False(t, domain.TaskPriority("Critical").IsValid())
}
