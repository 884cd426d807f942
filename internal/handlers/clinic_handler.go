package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

type UpdateClinicRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *ClinicHandler) GetMeClinic(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Failed to load clinic.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) UpdateMeClinic(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Failed to load clinic.")
		return
	}

	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if slug == "" {
			httperr.BadRequest(c, "invalid_slug", "Slug must not be empty.")
			return
		}
		var count int64
		h.db.Model(&models.Clinic{}).
			Where("slug = ? AND id <> ?", slug, clinic.ID).
			Count(&count)
		if count > 0 {
			httperr.BadRequest(c, "slug_already_exists", "Slug is already in use.")
			return
		}
		clinic.Slug = slug
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		clinic.Timezone = *req.Timezone
	}

	if err := h.db.Save(&clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Failed to save clinic.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}
