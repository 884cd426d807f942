package dto

import "time"

type ReservationListDTO struct {
	ID        uint      `json:"id"`
	PublicRef string    `json:"public_ref"`
	ClinicID  uint      `json:"clinic_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`

	TotalDurationMin int      `json:"total_duration_min"`
	TotalPriceMin    *float64 `json:"total_price_min"`
	TotalPriceMax    *float64 `json:"total_price_max"`

	ManualBlock  bool     `json:"manual_block"`
	ServiceNames []string `json:"service_names"`
	Notes        string   `json:"notes"`
}
