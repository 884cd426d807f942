package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/config"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
	"github.com/caredesk/clinic-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterClinicRequest struct {
	ClinicName     string `json:"clinic_name" binding:"required"`
	ClinicSlug     string `json:"clinic_slug" binding:"required"`
	ClinicPhone    string `json:"clinic_phone"`
	ClinicAddress  string `json:"clinic_address"`
	ClinicTimezone string `json:"clinic_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// RegisterClinic creates a clinic and its first operator account in one call.
func (h *AuthHandler) RegisterClinic(c *gin.Context) {
	var req RegisterClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.ClinicSlug))

	tz := req.ClinicTimezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	} else if !timezone.IsValid(tz) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
		return
	}

	var count int64
	h.db.Model(&models.Clinic{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	clinic := models.Clinic{
		Name:     req.ClinicName,
		Slug:     slug,
		Phone:    req.ClinicPhone,
		Address:  req.ClinicAddress,
		Timezone: tz,
	}

	if err := h.db.Create(&clinic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_clinic"})
		return
	}

	user, ok := h.createUser(c, req.Name, req.Email, req.Password, req.Phone, models.RoleOperator, &clinic.ID)
	if !ok {
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(user),
		"clinic": clinicJSON(&clinic),
		"token":  token,
	})
}

func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	user, ok := h.createUser(c, req.Name, req.Email, req.Password, req.Phone, models.RolePatient, nil)
	if !ok {
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Clinic").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	resp := gin.H{
		"user":  userJSON(&user),
		"token": token,
	}
	if user.Clinic != nil {
		resp["clinic"] = clinicJSON(user.Clinic)
	}

	c.JSON(http.StatusOK, resp)
}

// --------- Helpers ---------

func (h *AuthHandler) createUser(
	c *gin.Context,
	name, email, password, phone, role string,
	clinicID *uint,
) (*models.User, bool) {

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return nil, false
	}

	email = strings.ToLower(strings.TrimSpace(email))

	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return nil, false
	}

	user := models.User{
		ClinicID:     clinicID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        phone,
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return nil, false
	}

	return &user, true
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"clinic_id": u.ClinicID,
	}
}

func clinicJSON(cl *models.Clinic) gin.H {
	return gin.H{
		"id":       cl.ID,
		"name":     cl.Name,
		"slug":     cl.Slug,
		"phone":    cl.Phone,
		"address":  cl.Address,
		"timezone": cl.Timezone,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if user.ClinicID != nil {
		claims["clinicId"] = *user.ClinicID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
