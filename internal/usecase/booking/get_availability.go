package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

// DefaultRangeDays is the inclusive span used when no end date is supplied.
const DefaultRangeDays = 30

const dateLayout = "2006-01-02"

// AvailabilityInput keys a request by either a catalog service (duration
// taken from the catalog) or a raw duration (the manual-block path).
type AvailabilityInput struct {
	ClinicID    uint
	ServiceID   *uint
	DurationMin *int
	StartDate   string
	EndDate     string
}

type GetAvailability struct {
	repo  scheduling.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(repo scheduling.Repository, c *cache.AvailabilityCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: c}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]scheduling.DayAvailability, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	durationMin := scheduling.DefaultSlotMinutes
	switch {
	case in.ServiceID != nil:
		svc, err := uc.repo.GetService(ctx, clinic.ID, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc.DurationMin > 0 {
			durationMin = svc.DurationMin
		}
	case in.DurationMin != nil:
		durationMin = *in.DurationMin
	}
	if durationMin <= 0 {
		return nil, scheduling.ErrInvalidDuration
	}
	duration := time.Duration(durationMin) * time.Minute

	loc := timezone.Location(clinic.Timezone)
	now := timezone.NowIn(clinic.Timezone)

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if in.StartDate != "" {
		start, err = time.ParseInLocation(dateLayout, in.StartDate, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}

	end := start.AddDate(0, 0, DefaultRangeDays-1)
	if in.EndDate != "" {
		end, err = time.ParseInLocation(dateLayout, in.EndDate, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}
	if end.Before(start) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	rangeKey := fmt.Sprintf("%s:%s:%d", start.Format(dateLayout), end.Format(dateLayout), durationMin)
	if days, ok := uc.cache.Get(ctx, clinic.ID, rangeKey); ok {
		return days, nil
	}

	var days []scheduling.DayAvailability

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {

		wh, err := uc.repo.GetWeeklyHours(ctx, clinic.ID, int(day.Weekday()))
		if err != nil {
			return nil, err
		}

		win, err := scheduling.DayWindow(day, wh)
		if err != nil {
			return nil, err
		}

		da := scheduling.DayAvailability{
			Date:      day.Format(dateLayout),
			DayOfWeek: day.Weekday().String(),
			IsOpen:    win.Open,
			Slots:     []scheduling.TimeSlot{},
		}

		if win.Open {
			da.OpensAt = wh.OpensAt
			da.ClosesAt = wh.ClosesAt

			slots, err := scheduling.GenerateSlots(win, duration, now)
			if err != nil {
				return nil, err
			}

			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
			busy, err := uc.repo.ListOccupancy(ctx, clinic.ID, dayStart, dayStart.AddDate(0, 0, 1))
			if err != nil {
				return nil, err
			}

			scheduling.MarkOccupied(slots, duration, busy)
			da.Slots = slots
		}

		days = append(days, da)
	}

	uc.cache.Set(ctx, clinic.ID, rangeKey, days)

	return days, nil
}
