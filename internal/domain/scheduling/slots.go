package scheduling

import (
	"time"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
)

// DefaultSlotMinutes applies when neither the caller nor the catalog supply
// a duration.
const DefaultSlotMinutes = 30

// ErrInvalidDuration rejects zero or negative slot durations.
var ErrInvalidDuration = httperr.ErrBusiness("invalid_duration")

type TimeSlot struct {
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`
}

type DayAvailability struct {
	Date      string     `json:"date"`
	DayOfWeek string     `json:"day_of_week"`
	IsOpen    bool       `json:"is_open"`
	OpensAt   string     `json:"opens_at,omitempty"`
	ClosesAt  string     `json:"closes_at,omitempty"`
	Slots     []TimeSlot `json:"slots"`
}

// GenerateSlots walks the window from open to close in fixed duration steps.
// Half-open semantics: a slot is a candidate iff start+duration <= close, so
// a slot ending exactly at close is valid.
//
// Slots starting before now are unavailable regardless of occupancy; a
// booking cannot begin in the past. Everything else is emitted available and
// refined by the occupancy pass afterwards.
func GenerateSlots(win Window, duration time.Duration, now time.Time) ([]TimeSlot, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !win.Open {
		return []TimeSlot{}, nil
	}

	slots := []TimeSlot{}
	for cur := win.Start; !cur.Add(duration).After(win.End); cur = cur.Add(duration) {
		slots = append(slots, TimeSlot{
			Date:      cur.Format("2006-01-02"),
			Time:      cur.Format("15:04"),
			StartsAt:  cur,
			Available: !cur.Before(now),
		})
	}

	return slots, nil
}
