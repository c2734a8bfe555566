package api

import (
	"time"

	"taskward/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// TokenResponse defines the successful response for authentication endpoints.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for task creation.
// Deadline and StartTime are date strings (RFC 3339 or YYYY-MM-DD); only
// their calendar date matters.
type CreateTaskRequest struct {
	Priority  string  `json:"priority"   validate:"required,oneof=High Medium Low"`
	Deadline  string  `json:"deadline"   validate:"required"`
	Hours     float64 `json:"hours"      validate:"required,gte=1"`
	Details   string  `json:"details"    validate:"required"`
	Status    string  `json:"status"     validate:"omitempty,oneof=Pending InProgress Completed Expired"`
	StartTime string  `json:"start_time" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for task updates. Absent fields are
// left unchanged.
type UpdateTaskRequest struct {
	Priority  *string  `json:"priority"   validate:"omitempty,oneof=High Medium Low"`
	Deadline  *string  `json:"deadline"   validate:"omitempty"`
	Hours     *float64 `json:"hours"      validate:"omitempty,gte=1"`
	Details   *string  `json:"details"    validate:"omitempty,min=1"`
	Status    *string  `json:"status"     validate:"omitempty,oneof=Pending InProgress Completed Expired"`
	StartTime *string  `json:"start_time" validate:"omitempty"`
}

// BatchUpdateStatusRequest defines the payload for the bulk status change
// endpoint.
type BatchUpdateStatusRequest struct {
	TaskIDs []string `json:"taskIds" validate:"required,min=1,dive,uuid"`
	Status  string   `json:"status"  validate:"required,oneof=Pending InProgress Completed Expired"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID        string     `json:"id"`
	Number    int64      `json:"number"`
	UserID    string     `json:"user_id"`
	Priority  string     `json:"priority"`
	Deadline  time.Time  `json:"deadline"`
	Hours     float64    `json:"hours"`
	Details   string     `json:"details"`
	Status    string     `json:"status"`
	StartTime *time.Time `json:"start_time"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PaginationResponse describes the page window of a listing.
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskListResponse is the response for the task listing endpoint.
type TaskListResponse struct {
	Tasks      []TaskResponse     `json:"tasks"`
	Pagination PaginationResponse `json:"pagination"`
}

// BatchUpdateStatusResponse is the response for the bulk status change
// endpoint. UpdatedTasks contains only the tasks that were actually
// updated; ids that did not resolve to a task owned by the caller are
// absent.
type BatchUpdateStatusResponse struct {
	UpdatedTasks []TaskResponse `json:"updatedTasks"`
	Status       string         `json:"status"`
}

// MessageResponse is a simple confirmation message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID.String(),
		Number:    task.Number,
		UserID:    task.UserID.String(),
		Priority:  string(task.Priority),
		Deadline:  task.Deadline,
		Hours:     task.Hours,
		Details:   task.Details,
		Status:    string(task.Status),
		StartTime: task.StartTime,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// tasksToResponse converts a slice of domain tasks.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
