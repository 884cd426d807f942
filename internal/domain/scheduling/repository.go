package scheduling

import (
	"context"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/models"
)

// ReservationFilter narrows list reads. Deleted rows are always excluded.
type ReservationFilter struct {
	ClinicID    *uint
	RequesterID *uint
	Status      string
	From        *time.Time
	To          *time.Time
}

// Repository is the storage port of the scheduling engine. The handle is
// passed in explicitly; the engine holds no process-wide state.
type Repository interface {
	// -------- Collaborators (read-only to the engine) --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	GetService(
		ctx context.Context,
		clinicID uint,
		serviceID uint,
	) (*models.ClinicService, error)

	GetWeeklyHours(
		ctx context.Context,
		clinicID uint,
		weekday int,
	) (*models.WeeklyHours, error)

	// -------- Occupancy --------
	// ListOccupancy returns the occupied intervals of active, non-deleted
	// reservations starting within [dayStart, dayEnd).
	ListOccupancy(
		ctx context.Context,
		clinicID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]Interval, error)

	// -------- Booking transaction --------
	// CreateWithConflictCheck runs the overlap re-check, the reservation
	// insert and the snapshot inserts in one transaction. Returns a
	// slot_conflict business error and writes nothing when the interval is
	// no longer free.
	CreateWithConflictCheck(
		ctx context.Context,
		res *models.Reservation,
		snaps []models.ServiceSnapshot,
	) error

	// UpdateWithConflictCheck re-checks the (possibly moved) interval while
	// ignoring the reservation itself, then persists the row and, when
	// replaceSnapshots is set, swaps its snapshot children.
	UpdateWithConflictCheck(
		ctx context.Context,
		res *models.Reservation,
		snaps []models.ServiceSnapshot,
		replaceSnapshots bool,
	) error

	// -------- Reservation reads / state changes --------
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	UpdateReservation(
		ctx context.Context,
		res *models.Reservation,
	) error

	ListReservations(
		ctx context.Context,
		filter ReservationFilter,
	) ([]models.Reservation, error)

	SoftDeleteReservation(
		ctx context.Context,
		id uint,
	) error

	// -------- Expiry sweep --------
	// ExpireOverdue flips active reservations whose start has passed to
	// expired, scoped by the optional clinic/requester ids.
	ExpireOverdue(
		ctx context.Context,
		now time.Time,
		clinicID *uint,
		requesterID *uint,
	) (int64, error)
}
