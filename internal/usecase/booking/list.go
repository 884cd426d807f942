package booking

import (
	"context"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/dto"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
	"github.com/caredesk/clinic-scheduler/internal/timezone"
)

const (
	OwnerSelf   = "self"
	OwnerClinic = "clinic"
)

type ListReservationsInput struct {
	Owner     string // "self" (requester's own) or "clinic" (operator view)
	Status    string
	StartDate string
	EndDate   string
}

type ListReservations struct {
	repo scheduling.Repository
}

func NewListReservations(repo scheduling.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Execute runs the opportunistic expiry sweep over the caller's scope, then
// lists. Expiry is therefore exactly as fresh as the last read.
func (uc *ListReservations) Execute(
	ctx context.Context,
	caller Caller,
	in ListReservationsInput,
) ([]dto.ReservationListDTO, error) {

	if in.Status != "" && !scheduling.IsValidStatus(scheduling.Status(in.Status)) {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	filter := scheduling.ReservationFilter{Status: in.Status}

	switch in.Owner {
	case OwnerSelf, "":
		userID := caller.UserID
		filter.RequesterID = &userID
	case OwnerClinic:
		if caller.Role != models.RoleOperator || caller.ClinicID == nil {
			return nil, httperr.ErrBusiness("not_authorized")
		}
		filter.ClinicID = caller.ClinicID
	default:
		return nil, httperr.ErrBusiness("invalid_owner")
	}

	if in.StartDate != "" {
		from, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		filter.From = &from
	}
	if in.EndDate != "" {
		to, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		toEnd := to.AddDate(0, 0, 1)
		filter.To = &toEnd
	}

	now := timezone.Now()
	if _, err := uc.repo.ExpireOverdue(ctx, now, filter.ClinicID, filter.RequesterID); err != nil {
		return nil, err
	}

	rows, err := uc.repo.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReservationListDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toListDTO(&rows[i]))
	}
	return out, nil
}

func toListDTO(r *models.Reservation) dto.ReservationListDTO {
	names := make([]string, 0, len(r.Snapshots))
	for _, s := range r.Snapshots {
		names = append(names, s.ServiceName)
	}

	return dto.ReservationListDTO{
		ID:               r.ID,
		PublicRef:        r.PublicRef,
		ClinicID:         r.ClinicID,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		Status:           r.Status,
		TotalDurationMin: r.TotalDurationMin,
		TotalPriceMin:    r.TotalPriceMin,
		TotalPriceMax:    r.TotalPriceMax,
		ManualBlock:      r.RequesterID == nil,
		ServiceNames:     names,
		Notes:            r.Notes,
	}
}
