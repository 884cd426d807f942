package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/usecase/booking"
)

// Human-readable messages per business code. The codes themselves are the
// contract; messages are advisory.
var businessMessages = map[string]string{
	"slot_conflict":          "The requested time overlaps an existing reservation.",
	"clinic_not_found":       "Clinic not found.",
	"service_not_found":      "Service not found.",
	"reservation_not_found":  "Reservation not found.",
	"invalid_date":           "Date must use the YYYY-MM-DD format.",
	"invalid_date_range":     "End date must not come before the start date.",
	"invalid_duration":       "Duration must be a positive number of minutes.",
	"invalid_date_or_time":   "Date or time is malformed.",
	"starts_in_past":         "Reservations cannot start in the past.",
	"invalid_manual_block":   "Manual blocks carry no requester and no services.",
	"invalid_requester":      "Requester must be a real account.",
	"missing_service":        "At least one service is required.",
	"not_authorized":         "You are not allowed to perform this action.",
	"outside_business_hours": "The requested time falls outside business hours.",
	"invalid_state":          "The reservation's current status forbids this transition.",
	"invalid_status":         "Unknown status value.",
	"invalid_owner":          "Owner must be 'self' or 'clinic'.",
	"invalid_schedule":       "Schedule entry is malformed.",
}

// writeError translates use-case errors into HTTP responses. Business codes
// map onto a small set of statuses; anything unrecognized is a 500.
func writeError(c *gin.Context, err error) {
	// A malformed schedule row surfaces from availability and booking reads;
	// it is the clinic's data at fault, not the server.
	var sfe scheduling.ScheduleFormatError
	if errors.As(err, &sfe) {
		httperr.BadRequest(c, "invalid_schedule", sfe.Error())
		return
	}

	code, ok := httperr.BusinessCode(err)
	if !ok {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	msg := businessMessages[code]
	if msg == "" {
		msg = code
	}

	switch code {
	case "slot_conflict":
		httperr.Conflict(c, code, msg)
	case "not_authorized":
		httperr.Forbidden(c, code, msg)
	case "clinic_not_found", "service_not_found", "reservation_not_found":
		httperr.NotFound(c, code, msg)
	default:
		httperr.BadRequest(c, code, msg)
	}
}

// callerFrom rebuilds the authenticated identity placed in the context by the
// auth middleware.
func callerFrom(c *gin.Context) (booking.Caller, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		httperr.Unauthorized(c, "user_not_in_context", "Missing authentication.")
		return booking.Caller{}, false
	}
	userID, ok := v.(uint)
	if !ok {
		httperr.Unauthorized(c, "invalid_user_id_type", "Missing authentication.")
		return booking.Caller{}, false
	}

	caller := booking.Caller{UserID: userID}
	if role, ok := c.Get(middleware.ContextUserRole); ok {
		caller.Role, _ = role.(string)
	}
	if clinicID, ok := middleware.ClinicIDFrom(c); ok {
		caller.ClinicID = &clinicID
	}
	return caller, true
}

func isOperator(caller booking.Caller) bool {
	return caller.Role == models.RoleOperator && caller.ClinicID != nil
}
