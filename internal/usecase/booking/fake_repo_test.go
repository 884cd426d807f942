package booking

import (
	"context"
	"sync"
	"time"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

// fakeRepo is an in-memory Repository. The conflict check runs under the
// same lock as the insert, mirroring the transactional guarantee of the real
// implementation.
type fakeRepo struct {
	mu sync.Mutex

	clinics  map[uint]*models.Clinic
	services map[uint]*models.ClinicService
	hours    map[uint]map[int]*models.WeeklyHours

	reservations map[uint]*models.Reservation
	snapshots    map[uint][]models.ServiceSnapshot

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinics:      map[uint]*models.Clinic{},
		services:     map[uint]*models.ClinicService{},
		hours:        map[uint]map[int]*models.WeeklyHours{},
		reservations: map[uint]*models.Reservation{},
		snapshots:    map[uint][]models.ServiceSnapshot{},
	}
}

func (f *fakeRepo) addClinic(c models.Clinic) *models.Clinic {
	f.clinics[c.ID] = &c
	return &c
}

func (f *fakeRepo) addService(s models.ClinicService) *models.ClinicService {
	f.services[s.ID] = &s
	return &s
}

func (f *fakeRepo) addHours(clinicID uint, weekday int, opens, closes string) {
	if f.hours[clinicID] == nil {
		f.hours[clinicID] = map[int]*models.WeeklyHours{}
	}
	f.hours[clinicID][weekday] = &models.WeeklyHours{
		ClinicID: clinicID,
		Weekday:  weekday,
		OpensAt:  opens,
		ClosesAt: closes,
	}
}

func (f *fakeRepo) openAllWeek(clinicID uint, opens, closes string) {
	for wd := 0; wd < 7; wd++ {
		f.addHours(clinicID, wd, opens, closes)
	}
}

func (f *fakeRepo) addReservation(r models.Reservation) *models.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	} else if r.ID > f.nextID {
		f.nextID = r.ID
	}
	f.reservations[r.ID] = &r
	return &r
}

func (f *fakeRepo) GetClinicByID(_ context.Context, id uint) (*models.Clinic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clinics[id]
	if !ok {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}
	out := *c
	return &out, nil
}

func (f *fakeRepo) GetService(_ context.Context, clinicID, serviceID uint) (*models.ClinicService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[serviceID]
	if !ok || s.ClinicID != clinicID || !s.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	out := *s
	return &out, nil
}

func (f *fakeRepo) GetWeeklyHours(_ context.Context, clinicID uint, weekday int) (*models.WeeklyHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wh, ok := f.hours[clinicID][weekday]
	if !ok {
		return nil, nil
	}
	out := *wh
	return &out, nil
}

func (f *fakeRepo) ListOccupancy(_ context.Context, clinicID uint, dayStart, dayEnd time.Time) ([]scheduling.Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []scheduling.Interval
	for _, r := range f.reservations {
		if r.ClinicID != clinicID || r.Deleted || !isActive(r.Status) {
			continue
		}
		if r.StartsAt.Before(dayStart) || !r.StartsAt.Before(dayEnd) {
			continue
		}
		out = append(out, scheduling.OccupiedInterval(r))
	}
	return out, nil
}

func (f *fakeRepo) CreateWithConflictCheck(_ context.Context, res *models.Reservation, snaps []models.ServiceSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasConflict(res, 0) {
		return httperr.ErrBusiness("slot_conflict")
	}

	f.nextID++
	res.ID = f.nextID

	stored := *res
	f.reservations[res.ID] = &stored

	for i := range snaps {
		snaps[i].ReservationID = res.ID
	}
	f.snapshots[res.ID] = append([]models.ServiceSnapshot(nil), snaps...)
	return nil
}

func (f *fakeRepo) UpdateWithConflictCheck(_ context.Context, res *models.Reservation, snaps []models.ServiceSnapshot, replaceSnapshots bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reservations[res.ID]; !ok {
		return httperr.ErrBusiness("reservation_not_found")
	}
	if f.hasConflict(res, res.ID) {
		return httperr.ErrBusiness("slot_conflict")
	}

	stored := *res
	f.reservations[res.ID] = &stored

	if replaceSnapshots {
		for i := range snaps {
			snaps[i].ReservationID = res.ID
		}
		f.snapshots[res.ID] = append([]models.ServiceSnapshot(nil), snaps...)
	}
	return nil
}

// hasConflict mirrors the storage-level overlap predicate: active rows whose
// [starts_at, ends_at) range intersects the candidate's.
func (f *fakeRepo) hasConflict(res *models.Reservation, excludeID uint) bool {
	for _, r := range f.reservations {
		if r.ID == excludeID || r.ClinicID != res.ClinicID || r.Deleted || !isActive(r.Status) {
			continue
		}
		if r.StartsAt.Before(res.EndsAt) && r.EndsAt.After(res.StartsAt) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) GetReservation(_ context.Context, id uint) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reservations[id]
	if !ok || r.Deleted {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}
	out := *r
	out.Snapshots = append([]models.ServiceSnapshot(nil), f.snapshots[id]...)
	return &out, nil
}

func (f *fakeRepo) UpdateReservation(_ context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reservations[res.ID]; !ok {
		return httperr.ErrBusiness("reservation_not_found")
	}
	stored := *res
	f.reservations[res.ID] = &stored
	return nil
}

func (f *fakeRepo) ListReservations(_ context.Context, filter scheduling.ReservationFilter) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Reservation
	for _, r := range f.reservations {
		if r.Deleted {
			continue
		}
		if filter.ClinicID != nil && r.ClinicID != *filter.ClinicID {
			continue
		}
		if filter.RequesterID != nil && (r.RequesterID == nil || *r.RequesterID != *filter.RequesterID) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.From != nil && r.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !r.StartsAt.Before(*filter.To) {
			continue
		}
		row := *r
		row.Snapshots = append([]models.ServiceSnapshot(nil), f.snapshots[r.ID]...)
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteReservation(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reservations[id]
	if !ok {
		return httperr.ErrBusiness("reservation_not_found")
	}
	r.Deleted = true
	return nil
}

func (f *fakeRepo) ExpireOverdue(_ context.Context, now time.Time, clinicID, requesterID *uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, r := range f.reservations {
		if r.Deleted || !isActive(r.Status) || !r.StartsAt.Before(now) {
			continue
		}
		if clinicID != nil && r.ClinicID != *clinicID {
			continue
		}
		if requesterID != nil && (r.RequesterID == nil || *r.RequesterID != *requesterID) {
			continue
		}
		r.Status = string(scheduling.StatusExpired)
		ts := now
		r.ExpiredAt = &ts
		n++
	}
	return n, nil
}

func isActive(status string) bool {
	for _, s := range scheduling.ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var _ scheduling.Repository = (*fakeRepo)(nil)
