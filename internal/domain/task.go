package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskDetailsEmpty is returned when a task's details field is empty.
	ErrTaskDetailsEmpty = errors.New("task details cannot be empty")

	// ErrTaskHoursInvalid is returned when a task's hours estimate is below the minimum.
	ErrTaskHoursInvalid = errors.New("task hours must be at least 1")

	// ErrTaskDeadlineEmpty is returned when a task has no deadline.
	ErrTaskDeadlineEmpty = errors.New("task deadline is required")

	// ErrInvalidPriority is returned when a priority value is not one of the known set.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidStatus is returned when a status value is not one of the known set.
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusExpired    TaskStatus = "Expired"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusExpired:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// MinTaskHours is the smallest accepted hours estimate for a task.
const MinTaskHours = 1

// Task represents a single tracked unit of work owned by a user.
//
// Deadline is semantically date-only; it is stored as a timestamp fixed at
// noon UTC on the deadline's calendar date (see the lifecycle package) so
// the calendar date survives round-trips through any UTC-offset timezone.
// StartTime follows the status invariants: nil while Pending, non-nil while
// InProgress.
type Task struct {
	ID        uuid.UUID    `json:"id"`
	Number    int64        `json:"number"`
	UserID    uuid.UUID    `json:"user_id"`
	Priority  TaskPriority `json:"priority"`
	Deadline  time.Time    `json:"deadline"`
	Hours     float64      `json:"hours"`
	Details   string       `json:"details"`
	Status    TaskStatus   `json:"status"`
	StartTime *time.Time   `json:"start_time"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// It generates a new UUID for the task ID and sets the creation/update
// timestamps. Status and StartTime are left for the caller to derive through
// the lifecycle policy before persisting. Returns an error if validation
// fails.
func NewTask(
	userID uuid.UUID,
	priority TaskPriority,
	deadline time.Time,
	hours float64,
	details string,
) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Priority:  priority,
		Deadline:  deadline,
		Hours:     hours,
		Details:   details,
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if t.Deadline.IsZero() {
		return ErrTaskDeadlineEmpty
	}

	if t.Hours < MinTaskHours {
		return ErrTaskHoursInvalid
	}

	if t.Details == "" {
		return ErrTaskDetailsEmpty
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}
