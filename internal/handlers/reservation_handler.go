package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/httpresp"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/usecase/booking"
)

// ManualSentinel is the wire-level marker for a clinic blocking its own time.
// The published API keeps -1 for compatibility; internally it becomes a
// tagged variant, never a stored id.
const ManualSentinel = -1

type ReservationHandler struct {
	create   *booking.CreateBooking
	list     *booking.ListReservations
	update   *booking.UpdateBooking
	confirm  *booking.ConfirmReservation
	cancel   *booking.CancelReservation
	complete *booking.CompleteReservation
	delete   *booking.DeleteReservation
}

func NewReservationHandler(
	create *booking.CreateBooking,
	list *booking.ListReservations,
	update *booking.UpdateBooking,
	confirm *booking.ConfirmReservation,
	cancel *booking.CancelReservation,
	complete *booking.CompleteReservation,
	del *booking.DeleteReservation,
) *ReservationHandler {
	return &ReservationHandler{
		create:   create,
		list:     list,
		update:   update,
		confirm:  confirm,
		cancel:   cancel,
		complete: complete,
		delete:   del,
	}
}

// --------- Requests ---------

type CreateReservationRequest struct {
	ClinicID uint `json:"clinic_id" binding:"required"`

	// RequesterID: omitted books for the caller; -1 marks a manual block;
	// a positive id lets an operator book on a client's behalf.
	RequesterID *int `json:"requester_id"`

	// ServiceID -1 pairs with RequesterID -1 for manual blocks. Multi-service
	// visits use Services instead.
	ServiceID *int   `json:"service_id"`
	Services  []uint `json:"services"`

	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Notes string `json:"notes"`
}

type UpdateReservationRequest struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Services []uint  `json:"services"`
	Notes    *string `json:"notes"`
}

// --------- Handlers ---------

func (h *ReservationHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	manual := req.RequesterID != nil && *req.RequesterID == ManualSentinel

	var requester scheduling.Requester
	switch {
	case manual:
		requester = scheduling.ManualBlockRequester()
	case req.RequesterID == nil:
		requester = scheduling.AccountRequester(caller.UserID)
	case *req.RequesterID > 0:
		// Booking on behalf of a client is an operator action.
		if !caller.OperatorOf(req.ClinicID) {
			httperr.Forbidden(c, "not_authorized", "Only clinic operators may book on behalf of clients.")
			return
		}
		requester = scheduling.AccountRequester(uint(*req.RequesterID))
	default:
		httperr.BadRequest(c, "invalid_requester", "Requester must be a real account.")
		return
	}

	var selection scheduling.ServiceSelection
	switch {
	case manual:
		if req.ServiceID == nil || *req.ServiceID != ManualSentinel {
			httperr.BadRequest(c, "invalid_manual_block", "Manual blocks carry no services.")
			return
		}
		selection = scheduling.RawDurationSelection(scheduling.ParseBlockDuration(req.Notes))
	case len(req.Services) > 0:
		selection = scheduling.CatalogSelection(req.Services...)
	case req.ServiceID != nil && *req.ServiceID > 0:
		selection = scheduling.CatalogSelection(uint(*req.ServiceID))
	default:
		httperr.BadRequest(c, "missing_service", "At least one service is required.")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), caller, booking.CreateBookingInput{
		ClinicID:  req.ClinicID,
		Requester: requester,
		Selection: selection,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservationJSON(res))
}

func (h *ReservationHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	owner := c.Query("owner")
	if owner == "" && isOperator(caller) {
		owner = booking.OwnerClinic
	}

	out, err := h.list.Execute(c.Request.Context(), caller, booking.ListReservationsInput{
		Owner:     owner,
		Status:    c.Query("status"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *ReservationHandler) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	res, err := h.update.Execute(c.Request.Context(), caller, id, booking.UpdateBookingInput{
		Date:       req.Date,
		Time:       req.Time,
		ServiceIDs: req.Services,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationJSON(res))
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, func(caller booking.Caller, id uint) (*models.Reservation, error) {
		return h.confirm.Execute(c.Request.Context(), caller, id)
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, func(caller booking.Caller, id uint) (*models.Reservation, error) {
		return h.cancel.Execute(c.Request.Context(), caller, id)
	})
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, func(caller booking.Caller, id uint) (*models.Reservation, error) {
		return h.complete.Execute(c.Request.Context(), caller, id)
	})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *ReservationHandler) transition(
	c *gin.Context,
	run func(booking.Caller, uint) (*models.Reservation, error),
) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}

	res, err := run(caller, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationJSON(res))
}

func reservationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Reservation id must be numeric.")
		return 0, false
	}
	return uint(id), true
}

func reservationJSON(r *models.Reservation) gin.H {
	services := make([]gin.H, 0, len(r.Snapshots))
	for _, s := range r.Snapshots {
		services = append(services, gin.H{
			"service_id":   s.ServiceID,
			"name":         s.ServiceName,
			"price_min":    s.PriceMin,
			"price_max":    s.PriceMax,
			"duration_min": s.DurationMin,
		})
	}

	return gin.H{
		"id":                 r.ID,
		"public_ref":         r.PublicRef,
		"clinic_id":          r.ClinicID,
		"requester_id":       r.RequesterID,
		"manual_block":       r.RequesterID == nil,
		"starts_at":          r.StartsAt,
		"ends_at":            r.EndsAt,
		"status":             r.Status,
		"total_duration_min": r.TotalDurationMin,
		"total_price_min":    r.TotalPriceMin,
		"total_price_max":    r.TotalPriceMax,
		"notes":              r.Notes,
		"services":           services,
	}
}
