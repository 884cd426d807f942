package models

import "time"

// ServiceSnapshot freezes a catalog service's name, price and duration at
// booking time. ServiceID is nullable: the catalog entry may be deleted later
// without touching the snapshot.
type ServiceSnapshot struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ReservationID uint `gorm:"index" json:"reservation_id"`

	ServiceID *uint `json:"service_id"`

	ServiceName string  `gorm:"size:100;not null" json:"service_name"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
	DurationMin int     `json:"duration_min"`

	CreatedAt time.Time `json:"created_at"`
}
