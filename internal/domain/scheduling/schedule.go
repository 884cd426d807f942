package scheduling

import (
	"fmt"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/models"
)

const clockLayout = "15:04"

// ScheduleFormatError reports a malformed "15:04" string in a clinic's
// business hours. It is never swallowed: a schedule that cannot be parsed
// must not silently become a closed (or open) day.
type ScheduleFormatError struct {
	Field string
	Value string
}

func (e ScheduleFormatError) Error() string {
	return fmt.Sprintf("malformed schedule time %s=%q (want HH:MM)", e.Field, e.Value)
}

// Window is the open interval of a single calendar day.
type Window struct {
	Open  bool
	Start time.Time
	End   time.Time
}

// ParseClock maps an "15:04" wall-clock string onto the given calendar date.
func ParseClock(date time.Time, field, hm string) (time.Time, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return time.Time{}, ScheduleFormatError{Field: field, Value: hm}
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), nil
}

// DayWindow resolves the business-hours window for one calendar date.
// A nil row or Closed=true yields a closed window. Empty open/close strings
// on a non-closed row are malformed, not "open all day".
func DayWindow(date time.Time, wh *models.WeeklyHours) (Window, error) {
	if wh == nil || wh.Closed {
		return Window{}, nil
	}

	start, err := ParseClock(date, "opens_at", wh.OpensAt)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(date, "closes_at", wh.ClosesAt)
	if err != nil {
		return Window{}, err
	}

	if !end.After(start) {
		return Window{}, ScheduleFormatError{Field: "closes_at", Value: wh.ClosesAt}
	}

	return Window{Open: true, Start: start, End: end}, nil
}
