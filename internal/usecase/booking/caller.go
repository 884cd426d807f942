package booking

import "github.com/caredesk/clinic-scheduler/internal/models"

// Caller is the authenticated identity handed down from the HTTP layer.
// The engine only ever sees id + role; accounts are managed elsewhere.
type Caller struct {
	UserID   uint
	ClinicID *uint
	Role     string
}

// OperatorOf reports whether the caller runs the given clinic.
func (c Caller) OperatorOf(clinicID uint) bool {
	return c.Role == models.RoleOperator && c.ClinicID != nil && *c.ClinicID == clinicID
}

// Owns reports whether the reservation belongs to the caller's account.
func (c Caller) Owns(res *models.Reservation) bool {
	return res.RequesterID != nil && *res.RequesterID == c.UserID
}

// MayManage allows the reservation's owner and the clinic's operators.
func (c Caller) MayManage(res *models.Reservation) bool {
	return c.Owns(res) || c.OperatorOf(res.ClinicID)
}
