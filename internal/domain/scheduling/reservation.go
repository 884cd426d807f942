package scheduling

import (
	"time"

	"github.com/caredesk/clinic-scheduler/internal/models"
)

// Domain mutators. Each validates the current state, then stamps the
// transition time; persistence is the caller's job.

func Confirm(r *models.Reservation, now time.Time) error {
	if err := CanConfirm(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusConfirmed)
	r.ConfirmedAt = &now
	return nil
}

func Cancel(r *models.Reservation, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	return nil
}

func Complete(r *models.Reservation, now time.Time) error {
	if err := CanComplete(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusCompleted)
	r.CompletedAt = &now
	return nil
}

// Expire is time-triggered, never caller-triggered, and terminal.
func Expire(r *models.Reservation, now time.Time) {
	if !ShouldExpire(Status(r.Status), r.StartsAt, now) {
		return
	}
	r.Status = string(StatusExpired)
	r.ExpiredAt = &now
}
