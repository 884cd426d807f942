package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
	"github.com/caredesk/clinic-scheduler/internal/httperr"
)

func TestCreateBookingSingleService(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, midnight := futureDay()

	res, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, string(scheduling.StatusPending), res.Status)
	assert.NotEmpty(t, res.PublicRef)
	require.NotNil(t, res.RequesterID)
	assert.Equal(t, testPatientID, *res.RequesterID)

	assert.Equal(t, midnight.Add(10*time.Hour), res.StartsAt)
	assert.Equal(t, midnight.Add(10*time.Hour+30*time.Minute), res.EndsAt)
	assert.Equal(t, 30, res.TotalDurationMin)

	require.Len(t, res.Snapshots, 1)
	assert.Equal(t, "Consultation", res.Snapshots[0].ServiceName)
}

func TestCreateBookingAggregatesServices(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	res, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10, 11),
		Date:      dateStr,
		Time:      "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 75, res.TotalDurationMin) // 30 + 45
	require.NotNil(t, res.TotalPriceMin)
	require.NotNil(t, res.TotalPriceMax)
	assert.Equal(t, 120.0, *res.TotalPriceMin) // 50 + 70
	assert.Equal(t, 200.0, *res.TotalPriceMax) // 80 + 120

	require.NotNil(t, res.PrimaryServiceID)
	assert.Equal(t, uint(10), *res.PrimaryServiceID)
	assert.Len(t, res.Snapshots, 2)
}

func TestCreateBookingConflict(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()
	in := CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "10:00",
	}

	_, err := uc.Execute(context.Background(), patientCaller(), in)
	require.NoError(t, err)

	in.Requester = scheduling.AccountRequester(8)
	_, err = uc.Execute(context.Background(), Caller{UserID: 8}, in)
	assert.True(t, httperr.IsBusiness(err, "slot_conflict"))
}

func TestCreateBookingBackToBackIsFine(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "10:00",
	})
	require.NoError(t, err)

	// Starts exactly where the previous one ends.
	_, err = uc.Execute(context.Background(), Caller{UserID: 8}, CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(8),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "10:30",
	})
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := uint(200 + i)
			_, errs[i] = uc.Execute(context.Background(), Caller{UserID: userID}, CreateBookingInput{
				ClinicID:  testClinicID,
				Requester: scheduling.AccountRequester(userID),
				Selection: scheduling.CatalogSelection(10),
				Date:      dateStr,
				Time:      "14:00",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, httperr.IsBusiness(err, "slot_conflict"))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      yesterday,
		Time:      "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "starts_in_past"))
}

func TestCreateBookingOutsideBusinessHours(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	// 17:45 + 30min spills past the 18:00 close.
	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "17:45",
	})
	assert.True(t, httperr.IsBusiness(err, "outside_business_hours"))

	_, err = uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "08:00",
	})
	assert.True(t, httperr.IsBusiness(err, "outside_business_hours"))
}

func TestCreateBookingUnknownClinicAndService(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  99,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "clinic_not_found"))

	_, err = uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(999),
		Date:      dateStr,
		Time:      "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestCreateManualBlock(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, midnight := futureDay()

	res, err := uc.Execute(context.Background(), operatorCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.ManualBlockRequester(),
		Selection: scheduling.RawDurationSelection(scheduling.ParseBlockDuration("lunch DURATION_MINUTES=60")),
		Date:      dateStr,
		Time:      "12:00",
		Notes:     "lunch DURATION_MINUTES=60",
	})
	require.NoError(t, err)

	// No requester, no services, confirmed on the spot.
	assert.Nil(t, res.RequesterID)
	assert.Nil(t, res.PrimaryServiceID)
	assert.Empty(t, res.Snapshots)
	assert.Equal(t, string(scheduling.StatusConfirmed), res.Status)
	assert.NotNil(t, res.ConfirmedAt)
	assert.Equal(t, 60, res.TotalDurationMin)
	assert.Equal(t, midnight.Add(13*time.Hour), res.EndsAt)
	assert.Nil(t, res.TotalPriceMin)
}

func TestCreateManualBlockOutsideHoursAllowed(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	// The business-hours rule binds catalog bookings only.
	_, err := uc.Execute(context.Background(), operatorCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.ManualBlockRequester(),
		Selection: scheduling.RawDurationSelection(30),
		Date:      dateStr,
		Time:      "22:00",
	})
	assert.NoError(t, err)
}

func TestCreateManualBlockRequiresOperator(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.ManualBlockRequester(),
		Selection: scheduling.RawDurationSelection(30),
		Date:      dateStr,
		Time:      "12:00",
	})
	assert.True(t, httperr.IsBusiness(err, "not_authorized"))
}

func TestCreateManualBlockHalvesMustPair(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	// Manual requester with a catalog selection.
	_, err := uc.Execute(context.Background(), operatorCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.ManualBlockRequester(),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "12:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_manual_block"))

	// Account requester with a raw duration.
	_, err = uc.Execute(context.Background(), operatorCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.RawDurationSelection(30),
		Date:      dateStr,
		Time:      "12:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_manual_block"))
}

func TestCreateBookingBlockedByManualBlock(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	_, err := uc.Execute(context.Background(), operatorCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.ManualBlockRequester(),
		Selection: scheduling.RawDurationSelection(120),
		Date:      dateStr,
		Time:      "10:00",
	})
	require.NoError(t, err)

	// Blocks occupy time exactly like bookings.
	_, err = uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(10),
		Date:      dateStr,
		Time:      "11:00",
	})
	assert.True(t, httperr.IsBusiness(err, "slot_conflict"))
}

func TestCreateBookingMissingService(t *testing.T) {
	repo, c := newTestEnv()
	uc := NewCreateBooking(repo, nil, c)

	dateStr, _ := futureDay()

	_, err := uc.Execute(context.Background(), patientCaller(), CreateBookingInput{
		ClinicID:  testClinicID,
		Requester: scheduling.AccountRequester(testPatientID),
		Selection: scheduling.CatalogSelection(),
		Date:      dateStr,
		Time:      "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "missing_service"))
}
