package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/httpresp"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

type ScheduleHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
}

func NewScheduleHandler(db *gorm.DB, c *cache.AvailabilityCache) *ScheduleHandler {
	return &ScheduleHandler{db: db, cache: c}
}

type ScheduleEntry struct {
	Weekday  int    `json:"weekday"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	Closed   bool   `json:"closed"`
}

type PutScheduleRequest struct {
	Days []ScheduleEntry `json:"days" binding:"required"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var rows []models.WeeklyHours
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_schedule", "Failed to load schedule.")
		return
	}

	httpresp.List(c, rows)
}

// Put replaces the whole weekly schedule in one shot. Partial edits are not
// supported; the client always sends the full picture.
func (h *ScheduleHandler) Put(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var req PutScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	seen := make(map[int]bool, 7)
	rows := make([]models.WeeklyHours, 0, len(req.Days))
	for _, d := range req.Days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[d.Weekday] {
			httperr.BadRequest(c, "invalid_schedule", "Weekday must be 0..6 and appear at most once.")
			return
		}
		seen[d.Weekday] = true

		if !d.Closed {
			open, err := time.Parse("15:04", d.OpensAt)
			if err != nil {
				httperr.BadRequest(c, "invalid_schedule", "opens_at must use the HH:mm format.")
				return
			}
			closeT, err := time.Parse("15:04", d.ClosesAt)
			if err != nil {
				httperr.BadRequest(c, "invalid_schedule", "closes_at must use the HH:mm format.")
				return
			}
			if !closeT.After(open) {
				httperr.BadRequest(c, "invalid_schedule", "closes_at must come after opens_at.")
				return
			}
		}

		rows = append(rows, models.WeeklyHours{
			ClinicID: clinicID,
			Weekday:  d.Weekday,
			OpensAt:  d.OpensAt,
			ClosesAt: d.ClosesAt,
			Closed:   d.Closed,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("clinic_id = ?", clinicID).
			Delete(&models.WeeklyHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_schedule", "Failed to save schedule.")
		return
	}

	// Business hours feed directly into slot generation.
	h.cache.Invalidate(c.Request.Context(), clinicID)

	httpresp.List(c, rows)
}
