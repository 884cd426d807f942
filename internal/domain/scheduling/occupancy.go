package scheduling

import (
	"time"

	"github.com/caredesk/clinic-scheduler/internal/models"
)

// Interval is a half-open occupied range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open intersection: touching endpoints do not conflict.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// EffectiveDuration picks the occupied length of a reservation:
// the aggregated total if set, else the primary service's duration,
// else the default.
func EffectiveDuration(r *models.Reservation) time.Duration {
	switch {
	case r.TotalDurationMin > 0:
		return time.Duration(r.TotalDurationMin) * time.Minute
	case r.PrimaryService != nil && r.PrimaryService.DurationMin > 0:
		return time.Duration(r.PrimaryService.DurationMin) * time.Minute
	default:
		return DefaultSlotMinutes * time.Minute
	}
}

// OccupiedInterval derives the half-open interval a reservation consumes.
func OccupiedInterval(r *models.Reservation) Interval {
	return Interval{Start: r.StartsAt, End: r.StartsAt.Add(EffectiveDuration(r))}
}

// MarkOccupied flips slots to unavailable where they intersect any occupied
// interval. Slots already unavailable (past-time rule) stay unavailable.
func MarkOccupied(slots []TimeSlot, duration time.Duration, busy []Interval) {
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		slot := Interval{Start: slots[i].StartsAt, End: slots[i].StartsAt.Add(duration)}
		for _, iv := range busy {
			if slot.Overlaps(iv) {
				slots[i].Available = false
				break
			}
		}
	}
}
