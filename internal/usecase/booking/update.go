package booking

import (
	"context"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

// UpdateBookingInput carries optional field changes. Nil/empty fields are
// left untouched. Service changes re-snapshot the catalog at update time.
type UpdateBookingInput struct {
	Date       string
	Time       string
	ServiceIDs []uint
	Notes      *string
}

type UpdateBooking struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewUpdateBooking(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	c *cache.AvailabilityCache,
) *UpdateBooking {
	return &UpdateBooking{repo: repo, audit: audit, cache: c}
}

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	caller Caller,
	reservationID uint,
	in UpdateBookingInput,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !caller.MayManage(res) {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	// Field updates apply to active reservations only; terminal states are
	// immutable.
	if scheduling.IsTerminal(scheduling.Status(res.Status)) {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	clinic, err := uc.repo.GetClinicByID(ctx, res.ClinicID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(clinic.Timezone)
	now := timezone.NowIn(clinic.Timezone)

	timeChanged := false
	if in.Date != "" || in.Time != "" {
		dateStr := in.Date
		if dateStr == "" {
			dateStr = res.StartsAt.In(loc).Format(dateLayout)
		}
		timeStr := in.Time
		if timeStr == "" {
			timeStr = res.StartsAt.In(loc).Format("15:04")
		}

		start, err := time.ParseInLocation(dateTimeLayout, dateStr+" "+timeStr, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		if start.Before(now) {
			return nil, httperr.ErrBusiness("starts_in_past")
		}
		res.StartsAt = start
		timeChanged = true
	}

	var snaps []models.ServiceSnapshot
	replaceSnapshots := false

	if len(in.ServiceIDs) > 0 {
		if res.RequesterID == nil {
			// Manual blocks carry no services to swap.
			return nil, httperr.ErrBusiness("invalid_manual_block")
		}

		var totalMin int
		var priceMin, priceMax float64
		for _, id := range in.ServiceIDs {
			svc, err := uc.repo.GetService(ctx, res.ClinicID, id)
			if err != nil {
				return nil, err
			}

			d := svc.DurationMin
			if d <= 0 {
				d = scheduling.DefaultSlotMinutes
			}
			totalMin += d
			priceMin += svc.PriceMin
			priceMax += svc.PriceMax

			serviceID := svc.ID
			snaps = append(snaps, models.ServiceSnapshot{
				ServiceID:   &serviceID,
				ServiceName: svc.Name,
				PriceMin:    svc.PriceMin,
				PriceMax:    svc.PriceMax,
				DurationMin: d,
			})
		}

		primary := in.ServiceIDs[0]
		res.PrimaryServiceID = &primary
		res.TotalDurationMin = totalMin
		res.TotalPriceMin = &priceMin
		res.TotalPriceMax = &priceMax
		replaceSnapshots = true
	}

	if in.Notes != nil {
		res.Notes = *in.Notes
	}

	res.EndsAt = res.StartsAt.Add(time.Duration(res.TotalDurationMin) * time.Minute)

	if timeChanged || replaceSnapshots {
		wh, err := uc.repo.GetWeeklyHours(ctx, res.ClinicID, int(res.StartsAt.Weekday()))
		if err != nil {
			return nil, err
		}
		win, err := scheduling.DayWindow(res.StartsAt, wh)
		if err != nil {
			return nil, err
		}
		if res.RequesterID != nil &&
			(!win.Open || res.StartsAt.Before(win.Start) || res.EndsAt.After(win.End)) {
			return nil, httperr.ErrBusiness("outside_business_hours")
		}
	}

	if err := uc.repo.UpdateWithConflictCheck(ctx, res, snaps, replaceSnapshots); err != nil {
		return nil, err
	}
	if replaceSnapshots {
		res.Snapshots = snaps
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: res.ClinicID,
		UserID:   &caller.UserID,
		Action:   "reservation_updated",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	uc.cache.Invalidate(ctx, res.ClinicID)

	return res, nil
}
