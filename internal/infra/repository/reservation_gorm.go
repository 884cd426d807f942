package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Collaborators
// --------------------------------------------------

func (r *ReservationGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("clinic_not_found")
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *ReservationGormRepository) GetService(
	ctx context.Context,
	clinicID uint,
	serviceID uint,
) (*models.ClinicService, error) {

	var svc models.ClinicService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND active = true", serviceID, clinicID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	return &svc, nil
}

// GetWeeklyHours returns (nil, nil) when no row exists for the weekday:
// an absent day is a closed day, not an error.
func (r *ReservationGormRepository) GetWeeklyHours(
	ctx context.Context,
	clinicID uint,
	weekday int,
) (*models.WeeklyHours, error) {

	var wh models.WeeklyHours
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND weekday = ?", clinicID, weekday).
		First(&wh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wh, nil
}

// --------------------------------------------------
// Occupancy
// --------------------------------------------------

func (r *ReservationGormRepository) ListOccupancy(
	ctx context.Context,
	clinicID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]scheduling.Interval, error) {

	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("PrimaryService").
		Where(
			"clinic_id = ? AND status IN ? AND deleted = false AND starts_at >= ? AND starts_at < ?",
			clinicID, scheduling.ActiveStatuses, dayStart, dayEnd,
		).
		Order("starts_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	intervals := make([]scheduling.Interval, 0, len(rows))
	for i := range rows {
		intervals = append(intervals, scheduling.OccupiedInterval(&rows[i]))
	}
	return intervals, nil
}

// --------------------------------------------------
// Booking transaction
// --------------------------------------------------

// conflictQuery builds the locked overlap probe: active, non-deleted rows of
// the clinic whose [starts_at, ends_at) range intersects the candidate's.
// The rows themselves are selected, never an aggregate: Postgres rejects
// FOR UPDATE on aggregate queries.
func conflictQuery(
	tx *gorm.DB,
	clinicID uint,
	excludeID uint,
	startsAt time.Time,
	endsAt time.Time,
) *gorm.DB {

	q := tx.
		Model(&models.Reservation{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"clinic_id = ? AND status IN ? AND deleted = false AND starts_at < ? AND ends_at > ?",
			clinicID, scheduling.ActiveStatuses, endsAt, startsAt,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

// CreateWithConflictCheck serializes against other writers for the same
// clinic interval: the FOR UPDATE re-check and the insert share one
// transaction, and the reservations_no_overlap constraint backstops the
// commit. Nothing is written on conflict.
func (r *ReservationGormRepository) CreateWithConflictCheck(
	ctx context.Context,
	res *models.Reservation,
	snaps []models.ServiceSnapshot,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Reservation
		if err := conflictQuery(tx, res.ClinicID, 0, res.StartsAt, res.EndsAt).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("slot_conflict")
		}

		if err := tx.Create(res).Error; err != nil {
			return err
		}

		for i := range snaps {
			snaps[i].ReservationID = res.ID
		}
		if len(snaps) > 0 {
			if err := tx.Create(&snaps).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("slot_conflict")
	}
	return err
}

func (r *ReservationGormRepository) UpdateWithConflictCheck(
	ctx context.Context,
	res *models.Reservation,
	snaps []models.ServiceSnapshot,
	replaceSnapshots bool,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Reservation
		if err := conflictQuery(tx, res.ClinicID, res.ID, res.StartsAt, res.EndsAt).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("slot_conflict")
		}

		if err := tx.Save(res).Error; err != nil {
			return err
		}

		if replaceSnapshots {
			if err := tx.
				Where("reservation_id = ?", res.ID).
				Delete(&models.ServiceSnapshot{}).Error; err != nil {
				return err
			}
			for i := range snaps {
				snaps[i].ReservationID = res.ID
			}
			if len(snaps) > 0 {
				if err := tx.Create(&snaps).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("slot_conflict")
	}
	return err
}

// --------------------------------------------------
// Reservation reads / state changes
// --------------------------------------------------

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Snapshots").
		Where("id = ? AND deleted = false", id).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("reservation_not_found")
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *ReservationGormRepository) ListReservations(
	ctx context.Context,
	filter scheduling.ReservationFilter,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Preload("Snapshots").
		Where("deleted = false")

	if filter.ClinicID != nil {
		q = q.Where("clinic_id = ?", *filter.ClinicID)
	}
	if filter.RequesterID != nil {
		q = q.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("starts_at < ?", *filter.To)
	}

	var rows []models.Reservation
	if err := q.Order("starts_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationGormRepository) SoftDeleteReservation(
	ctx context.Context,
	id uint,
) error {

	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND deleted = false", id).
		Update("deleted", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return httperr.ErrBusiness("reservation_not_found")
	}
	return nil
}

// --------------------------------------------------
// Expiry sweep
// --------------------------------------------------

func (r *ReservationGormRepository) ExpireOverdue(
	ctx context.Context,
	now time.Time,
	clinicID *uint,
	requesterID *uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(
			"status IN ? AND deleted = false AND starts_at < ?",
			scheduling.ActiveStatuses, now,
		)

	if clinicID != nil {
		q = q.Where("clinic_id = ?", *clinicID)
	}
	if requesterID != nil {
		q = q.Where("requester_id = ?", *requesterID)
	}

	result := q.Updates(map[string]any{
		"status":     string(scheduling.StatusExpired),
		"expired_at": now,
	})

	return result.RowsAffected, result.Error
}

// Compile-time check
var _ scheduling.Repository = (*ReservationGormRepository)(nil)
