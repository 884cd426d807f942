package booking

import (
	"context"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

// ConfirmReservation needs no cache invalidation: pending and confirmed
// occupy time alike.
type ConfirmReservation struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
}

func NewConfirmReservation(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
) *ConfirmReservation {
	return &ConfirmReservation{repo: repo, audit: audit}
}

func (uc *ConfirmReservation) Execute(
	ctx context.Context,
	caller Caller,
	reservationID uint,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !caller.OperatorOf(res.ClinicID) {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	clinic, err := uc.repo.GetClinicByID(ctx, res.ClinicID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(clinic.Timezone)
	if err := scheduling.Confirm(res, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: res.ClinicID,
		UserID:   &caller.UserID,
		Action:   "reservation_confirmed",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}
