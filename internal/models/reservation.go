package models

import "time"

// Reservation is a booked interval against a clinic.
//
// RequesterID and PrimaryServiceID are NULL for manual blocks (time the
// clinic reserved for itself); there are no placeholder rows behind them.
// EndsAt is always StartsAt + TotalDurationMin and is stored so the overlap
// exclusion constraint and occupancy queries can work on a plain range.
type Reservation struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PublicRef string `gorm:"size:36;uniqueIndex" json:"public_ref"`

	ClinicID uint   `gorm:"index" json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	RequesterID *uint `gorm:"index" json:"requester_id"`
	Requester   *User `gorm:"foreignKey:RequesterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PrimaryServiceID *uint          `json:"primary_service_id"`
	PrimaryService   *ClinicService `gorm:"foreignKey:PrimaryServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StartsAt time.Time `gorm:"index" json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	TotalDurationMin int      `json:"total_duration_min"`
	TotalPriceMin    *float64 `json:"total_price_min"`
	TotalPriceMax    *float64 `json:"total_price_max"`

	Notes   string `gorm:"size:255" json:"notes"`
	Deleted bool   `gorm:"default:false;index" json:"-"`

	Snapshots []ServiceSnapshot `gorm:"foreignKey:ReservationID" json:"snapshots,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ExpiredAt   *time.Time `json:"expired_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
