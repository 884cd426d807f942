package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

// GetClinicBySlug is the directory page: the clinic's profile plus its
// active services. No authentication required.
func (h *PublicHandler) GetClinicBySlug(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var clinic models.Clinic
	if err := h.db.Where("slug = ?", slug).First(&clinic).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Failed to load clinic.")
		return
	}

	var services []models.ClinicService
	if err := h.db.
		Where("clinic_id = ? AND active = ?", clinic.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to load services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinic":   clinicJSON(&clinic),
		"services": services,
	})
}
