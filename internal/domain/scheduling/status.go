package scheduling

import (
	"time"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// ActiveStatuses are the states that occupy time: only these participate in
// overlap checks and the no-double-booking invariant.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusExpired
}

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// ShouldExpire holds for active reservations whose start instant has passed.
func ShouldExpire(current Status, startsAt, now time.Time) bool {
	if current != StatusPending && current != StatusConfirmed {
		return false
	}
	return startsAt.Before(now)
}
