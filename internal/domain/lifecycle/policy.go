package lifecycle

import (
	"errors"
	"time"

	"taskward/internal/domain"
)

// ErrStartTimeBeforeToday is returned when a requested start time falls on
// a calendar date before today.
var ErrStartTimeBeforeToday = errors.New("start time cannot be earlier than today")

// DecideStatus maps a client-requested status and the task's deadline to
// the status that is actually persisted.
//
// A past deadline forces Expired regardless of what the client asked for.
// Otherwise a client may never request Expired directly; the request falls
// back to Pending, the safe default when the deadline has not passed. An
// absent (empty) requested status also defaults to Pending.
//
// Note the policy only coerces the requested value: a task that is already
// Expired may still be moved away from Expired by an explicit request, which
// is permitted behavior.
func DecideStatus(requested domain.TaskStatus, deadline, now time.Time) domain.TaskStatus {
	if IsBeforeToday(deadline, now) {
		return domain.TaskStatusExpired
	}
	if requested == domain.TaskStatusExpired || requested == "" {
		return domain.TaskStatusPending
	}
	return requested
}

// DecideStartTime derives the start time to persist for a task entering
// effectiveStatus.
//
//   - Pending always clears the start time.
//   - InProgress takes the requested start time if given (validated against
//     the today floor), falls back to now on a fresh transition into
//     InProgress, and otherwise keeps the previous value.
//   - Completed and Expired take an explicitly requested start time, or
//     keep whatever was recorded before.
//
// The same derivation applies on create, update and batch update; on create
// the previous state is simply absent (nil previous start, empty previous
// status).
func DecideStartTime(
	effectiveStatus domain.TaskStatus,
	requestedStart *time.Time,
	previousStart *time.Time,
	previousStatus domain.TaskStatus,
	now time.Time,
) (*time.Time, error) {
	switch effectiveStatus {
	case domain.TaskStatusPending:
		return nil, nil

	case domain.TaskStatusInProgress:
		if requestedStart != nil {
			if IsBeforeToday(*requestedStart, now) {
				return nil, ErrStartTimeBeforeToday
			}
			fixed := FixedDate(*requestedStart)
			return &fixed, nil
		}
		if previousStatus != domain.TaskStatusInProgress {
			fixed := FixedDate(now)
			return &fixed, nil
		}
		return previousStart, nil

	default: // Completed, Expired
		if requestedStart != nil {
			fixed := FixedDate(*requestedStart)
			return &fixed, nil
		}
		return previousStart, nil
	}
}
