package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskward/internal/domain"
	"taskward/internal/store"
)

// taskColumns is the canonical select list for task rows.
const taskColumns = `id, number, user_id, priority, deadline, hours, details, status, start_time, created_at, updated_at`

// sortableTaskFields whitelists the fields a listing may be ordered by.
// Anything else falls back to created_at.
var sortableTaskFields = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"deadline":   "deadline",
	"priority":   "priority",
	"status":     "status",
	"hours":      "hours",
	"number":     "number",
	"start_time": "start_time",
	"startTime":  "start_time",
}

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
// It validates the task and inserts the row.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		s.logger.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Number,
		task.UserID,
		task.Priority,
		task.Deadline,
		task.Hours,
		task.Details,
		task.Status,
		nullableTime(task.StartTime),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		s.logger.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	s.logger.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// GetOwnedByIDs implements store.TaskStore.GetOwnedByIDs
// IDs that do not resolve to a task owned by ownerID are silently absent
// from the result.
func (s *TaskStore) GetOwnedByIDs(
	ctx context.Context,
	ownerID uuid.UUID,
	ids []uuid.UUID,
) ([]*domain.Task, error) {
	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query tasks by IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}

	return collectTasks(rows, s.logger)
}

// List implements store.TaskStore.List
func (s *TaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskListFilter,
) ([]*domain.Task, int, error) {
	where := []string{"user_id = $1"}
	args := []any{ownerID}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			args = append(args, st)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, p := range filter.Priorities {
			args = append(args, p)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, "priority IN ("+strings.Join(placeholders, ", ")+")")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE ` + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		s.logger.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, err
	}

	sortColumn, ok := sortableTaskFields[filter.SortField]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortDir == store.SortAsc {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		taskColumns, whereClause, sortColumn, direction, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, err
	}

	tasks, err := collectTasks(rows, s.logger)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		s.logger.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET priority = $1, deadline = $2, hours = $3, details = $4,
		    status = $5, start_time = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Priority,
		task.Deadline,
		task.Hours,
		task.Details,
		task.Status,
		nullableTime(task.StartTime),
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		s.logger.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	s.logger.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	s.logger.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// ExpireOverdue implements store.TaskStore.ExpireOverdue
// The predicate is self-contained: no per-task fetch is needed, and the
// update only ever moves status toward Expired, so it is safe to run
// concurrently with ordinary reads and writes.
func (s *TaskStore) ExpireOverdue(
	ctx context.Context,
	ownerID uuid.UUID,
	boundary time.Time,
) (int64, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE user_id = $3 AND deadline < $4 AND status <> $1
	`
	result, err := s.db.ExecContext(
		ctx, query, domain.TaskStatusExpired, time.Now().UTC(), ownerID, boundary,
	)
	if err != nil {
		s.logger.Error("failed to expire overdue tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return 0, err
	}

	return result.RowsAffected()
}

// ExpireAllOverdue implements store.TaskStore.ExpireAllOverdue
func (s *TaskStore) ExpireAllOverdue(ctx context.Context, boundary time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE deadline < $3 AND status <> $1
	`
	result, err := s.db.ExecContext(
		ctx, query, domain.TaskStatusExpired, time.Now().UTC(), boundary,
	)
	if err != nil {
		s.logger.Error("failed to expire overdue tasks across users",
			slog.String("error", err.Error()))
		return 0, err
	}

	return result.RowsAffected()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string
	var startTime sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Number,
		&task.UserID,
		&priority,
		&task.Deadline,
		&task.Hours,
		&task.Details,
		&status,
		&startTime,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	if startTime.Valid {
		value := startTime.Time
		task.StartTime = &value
	}

	return &task, nil
}

func collectTasks(rows *sql.Rows, logger *slog.Logger) ([]*domain.Task, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		logger.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
