package service

import "errors"

// Common service errors
var (
	// ErrTaskNotOwned is returned when a task exists but belongs to a
	// different user than the caller.
	ErrTaskNotOwned = errors.New("task not owned by caller")

	// ErrBatchExpiredStatus is returned when a batch update requests the
	// Expired status, which only the expiry sweep may set.
	ErrBatchExpiredStatus = errors.New("status cannot be set to Expired")
)
