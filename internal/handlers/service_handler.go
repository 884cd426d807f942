package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/httpresp"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	PriceMin    *float64 `json:"price_min"`
	PriceMax    *float64 `json:"price_max"`
	Active      *bool    `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var services []models.ClinicService
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to load services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}
	if req.DurationMin < 0 || req.PriceMin < 0 || req.PriceMax < req.PriceMin {
		httperr.BadRequest(c, "invalid_service", "Duration and price range must be non-negative.")
		return
	}

	service := models.ClinicService{
		ClinicID:    clinicID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
		Active:      true,
	}
	if service.DurationMin == 0 {
		service.DurationMin = 30
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Failed to save service.")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	clinicID, ok := middleware.ClinicIDFrom(c)
	if !ok {
		httperr.Forbidden(c, "not_a_clinic_operator", "Caller has no clinic.")
		return
	}
	serviceID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	var service models.ClinicService
	if err := h.db.
		Where("id = ? AND clinic_id = ?", serviceID, clinicID).
		First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to load service.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be a positive number of minutes.")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.PriceMin != nil {
		service.PriceMin = *req.PriceMin
	}
	if req.PriceMax != nil {
		service.PriceMax = *req.PriceMax
	}
	if service.PriceMax < service.PriceMin {
		httperr.BadRequest(c, "invalid_service", "price_max must not be below price_min.")
		return
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Failed to save service.")
		return
	}

	c.JSON(http.StatusOK, service)
}
