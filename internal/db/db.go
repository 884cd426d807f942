package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/config"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.ClinicService{},
		&models.WeeklyHours{},
		&models.Reservation{},
		&models.ServiceSnapshot{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	// Commit-time backstop for the no-double-booking invariant: two
	// transactions inserting intersecting active intervals for one clinic
	// cannot both commit, whatever the in-transaction checks saw.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
        ALTER TABLE reservations
        DROP CONSTRAINT IF EXISTS reservations_no_overlap
    `)
	if err := db.Exec(`
        ALTER TABLE reservations
        ADD CONSTRAINT reservations_no_overlap
        EXCLUDE USING gist (
            clinic_id WITH =,
            tstzrange(starts_at, ends_at) WITH &&
        ) WHERE (status IN ('pending', 'confirmed') AND deleted = false)
    `).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to install reservation exclusion constraint")
	}

	db.Exec(`
        UPDATE clinics
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
