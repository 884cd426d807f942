package models

import "time"

const (
	RoleOperator = "operator"
	RolePatient  = "patient"
)

// User is either a clinic operator (ClinicID set) or a patient account
// (ClinicID nil).
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ClinicID *uint   `json:"clinic_id"`
	Clinic   *Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'patient'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
