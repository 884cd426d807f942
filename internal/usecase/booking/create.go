package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

const dateTimeLayout = "2006-01-02 15:04"

type CreateBookingInput struct {
	ClinicID  uint
	Requester scheduling.Requester
	Selection scheduling.ServiceSelection

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string
}

type CreateBooking struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewCreateBooking(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	c *cache.AvailabilityCache,
) *CreateBooking {
	return &CreateBooking{repo: repo, audit: audit, cache: c}
}

// Execute runs the booking transaction: resolve the selection against the
// catalog exactly once, snapshot prices/durations, and insert under the
// conflict check. Any failure leaves nothing behind.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	caller Caller,
	in CreateBookingInput,
) (*models.Reservation, error) {

	// A manual block is a requesterless, serviceless reservation. The two
	// halves must arrive together; any other mix is malformed input.
	manual := in.Requester.IsManualBlock()
	if manual != in.Selection.IsRawDuration() {
		return nil, httperr.ErrBusiness("invalid_manual_block")
	}
	if manual && !caller.OperatorOf(in.ClinicID) {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(clinic.Timezone)
	start, err := time.ParseInLocation(dateTimeLayout, in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(clinic.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("starts_in_past")
	}

	res := &models.Reservation{
		PublicRef: uuid.NewString(),
		ClinicID:  clinic.ID,
		StartsAt:  start,
		Notes:     in.Notes,
		Status:    string(scheduling.StatusPending),
	}

	var snaps []models.ServiceSnapshot

	if manual {
		minutes := in.Selection.RawMinutes()
		if minutes <= 0 {
			return nil, scheduling.ErrInvalidDuration
		}
		res.TotalDurationMin = minutes

		// Self-authorized by the operator: no client confirmation step.
		res.Status = string(scheduling.StatusConfirmed)
		res.ConfirmedAt = &now
	} else {
		accountID, ok := in.Requester.AccountID()
		if !ok {
			return nil, httperr.ErrBusiness("invalid_requester")
		}
		res.RequesterID = &accountID

		ids := in.Selection.CatalogIDs()
		if len(ids) == 0 {
			return nil, httperr.ErrBusiness("missing_service")
		}

		var totalMin int
		var priceMin, priceMax float64
		for _, id := range ids {
			svc, err := uc.repo.GetService(ctx, clinic.ID, id)
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

		primary := ids[0]
		res.PrimaryServiceID = &primary
		res.TotalDurationMin = totalMin
		res.TotalPriceMin = &priceMin
		res.TotalPriceMax = &priceMax
	}

	res.EndsAt = start.Add(time.Duration(res.TotalDurationMin) * time.Minute)

	// Catalog bookings must fit the clinic's business hours. Manual blocks
	// may cover any time: the clinic is free to block outside its own hours.
	if !manual {
		wh, err := uc.repo.GetWeeklyHours(ctx, clinic.ID, int(start.Weekday()))
		if err != nil {
			return nil, err
		}
		win, err := scheduling.DayWindow(start, wh)
		if err != nil {
			return nil, err
		}
		if !win.Open || start.Before(win.Start) || res.EndsAt.After(win.End) {
			return nil, httperr.ErrBusiness("outside_business_hours")
		}
	}

	if err := uc.repo.CreateWithConflictCheck(ctx, res, snaps); err != nil {
		if httperr.IsBusiness(err, "slot_conflict") {
			uc.audit.Dispatch(audit.Event{
				ClinicID: clinic.ID,
				UserID:   &caller.UserID,
				Action:   "reservation_conflict",
				Entity:   "reservation",
				Metadata: map[string]any{"starts_at": start, "ends_at": res.EndsAt},
			})
		}
		return nil, err
	}

	res.Snapshots = snaps

	action := "reservation_created"
	if manual {
		action = "manual_block_created"
	}
	uc.audit.Dispatch(audit.Event{
		ClinicID: clinic.ID,
		UserID:   &caller.UserID,
		Action:   action,
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	uc.cache.Invalidate(ctx, clinic.ID)

	return res, nil
}
