package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/httpresp"
	"github.com/caredesk/clinic-scheduler/internal/usecase/booking"
)

type AvailabilityHandler struct {
	availability *booking.GetAvailability
}

func NewAvailabilityHandler(availability *booking.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// GetByService returns open slots sized by the catalog service's duration.
func (h *AvailabilityHandler) GetByService(c *gin.Context) {
	clinicID, ok := pathUint(c, "clinicID")
	if !ok {
		return
	}
	serviceID, ok := pathUint(c, "serviceID")
	if !ok {
		return
	}

	days, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		ClinicID:  clinicID,
		ServiceID: &serviceID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, days)
}

// GetByDuration sizes slots by an explicit minute count instead of a catalog
// service. Used when blocking time or quoting ad-hoc visits.
func (h *AvailabilityHandler) GetByDuration(c *gin.Context) {
	clinicID, ok := pathUint(c, "clinicID")
	if !ok {
		return
	}

	durationStr := c.DefaultQuery("duration", "")
	var durationMin *int
	if durationStr != "" {
		d, err := strconv.Atoi(durationStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "Duration must be a positive number of minutes.")
			return
		}
		durationMin = &d
	}

	days, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		ClinicID:    clinicID,
		DurationMin: durationMin,
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, days)
}

func pathUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", name+" must be numeric.")
		return 0, false
	}
	return uint(v), true
}
