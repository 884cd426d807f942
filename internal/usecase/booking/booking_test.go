package booking

import (
	"time"

	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

// Shared test fixtures. The clinic runs on UTC so wall-clock expectations in
// assertions line up with the stored instants.

const (
	testClinicID  = uint(1)
	testPatientID = uint(7)
	testOperator  = uint(100)
)

func newTestEnv() (*fakeRepo, *cache.AvailabilityCache) {
	repo := newFakeRepo()
	repo.addClinic(models.Clinic{
		ID:       testClinicID,
		Name:     "Northside Clinic",
		Slug:     "northside",
		Timezone: "UTC",
	})
	repo.addService(models.ClinicService{
		ID:          10,
		ClinicID:    testClinicID,
		Name:        "Consultation",
		DurationMin: 30,
		PriceMin:    50,
		PriceMax:    80,
		Active:      true,
	})
	repo.addService(models.ClinicService{
		ID:          11,
		ClinicID:    testClinicID,
		Name:        "Physiotherapy",
		DurationMin: 45,
		PriceMin:    70,
		PriceMax:    120,
		Active:      true,
	})
	repo.openAllWeek(testClinicID, "09:00", "18:00")

	// Empty addr keeps the cache disabled; reads fall through to the repo.
	return repo, cache.NewAvailabilityCache("")
}

func operatorCaller() Caller {
	clinicID := testClinicID
	return Caller{UserID: testOperator, ClinicID: &clinicID, Role: models.RoleOperator}
}

func patientCaller() Caller {
	return Caller{UserID: testPatientID, Role: models.RolePatient}
}

// futureDay returns a date far enough ahead that the past-slot rule never
// interferes, formatted for the API plus as a midnight instant.
func futureDay() (string, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, 7)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Format("2006-01-02"), midnight
}
