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

type CancelReservation struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewCancelReservation(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	c *cache.AvailabilityCache,
) *CancelReservation {
	return &CancelReservation{repo: repo, audit: audit, cache: c}
}

// Execute cancels on behalf of the reservation's owner or the clinic.
// Cancelling frees the interval, so the availability cache is invalidated.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	caller Caller,
	reservationID uint,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !caller.MayManage(res) {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	clinic, err := uc.repo.GetClinicByID(ctx, res.ClinicID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(clinic.Timezone)
	if err := scheduling.Cancel(res, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: res.ClinicID,
		UserID:   &caller.UserID,
		Action:   "reservation_cancelled",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	uc.cache.Invalidate(ctx, res.ClinicID)

	return res, nil
}
