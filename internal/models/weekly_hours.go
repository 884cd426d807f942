package models

import "time"

// WeeklyHours is one weekday row of a clinic's business hours.
// OpensAt/ClosesAt use the "15:04" wall-clock format in the clinic timezone.
// A missing row for a weekday is treated the same as Closed=true.
type WeeklyHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Weekday  int    `json:"weekday"` // 0=Sunday .. 6=Saturday
	OpensAt  string `gorm:"size:5" json:"opens_at"`
	ClosesAt string `gorm:"size:5" json:"closes_at"`
	Closed   bool   `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
