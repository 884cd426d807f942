package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/httpresp"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List returns the clinic's audit trail, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	query := h.db.
		Where("clinic_id = ?", clinicID).
		Order("created_at DESC").
		Limit(limit)

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Failed to load audit logs.")
		return
	}

	httpresp.List(c, logs)
}
