package models

import "time"

// ClinicService is a catalog entry. Price and duration here are the current
// values; bookings copy them into ServiceSnapshot rows at creation time.
type ClinicService struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `gorm:"default:30" json:"duration_min"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
