package booking

import (
	"context"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

type CompleteReservation struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewCompleteReservation(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	c *cache.AvailabilityCache,
) *CompleteReservation {
	return &CompleteReservation{repo: repo, audit: audit, cache: c}
}

func (uc *CompleteReservation) Execute(
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
	if err := scheduling.Complete(res, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: res.ClinicID,
		UserID:   &caller.UserID,
		Action:   "reservation_completed",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	// Completed rows no longer occupy time.
	uc.cache.Invalidate(ctx, res.ClinicID)

	return res, nil
}
