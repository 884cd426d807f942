package booking

import (
	"context"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
)

type DeleteReservation struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewDeleteReservation(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	c *cache.AvailabilityCache,
) *DeleteReservation {
	return &DeleteReservation{repo: repo, audit: audit, cache: c}
}

// Execute soft-deletes: the row survives but leaves every future read and
// the occupancy computation. Status is untouched.
func (uc *DeleteReservation) Execute(
	ctx context.Context,
	caller Caller,
	reservationID uint,
) error {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	if !caller.MayManage(res) {
		return httperr.ErrBusiness("not_authorized")
	}

	if err := uc.repo.SoftDeleteReservation(ctx, res.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: res.ClinicID,
		UserID:   &caller.UserID,
		Action:   "reservation_deleted",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	uc.cache.Invalidate(ctx, res.ClinicID)

	return nil
}
