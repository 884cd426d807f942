package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/clinic-scheduler/internal/httperr"
	"github.com/caredesk/clinic-scheduler/internal/models"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusExpired} {
		assert.True(t, IsValidStatus(s), string(s))
	}
	assert.False(t, IsValidStatus("scheduled"))
	assert.False(t, IsValidStatus(""))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusExpired))
}

func TestTransitionGuards(t *testing.T) {
	assert.NoError(t, CanConfirm(StatusPending))
	assert.Error(t, CanConfirm(StatusConfirmed))
	assert.Error(t, CanConfirm(StatusCancelled))

	assert.NoError(t, CanCancel(StatusPending))
	assert.NoError(t, CanCancel(StatusConfirmed))
	assert.Error(t, CanCancel(StatusCompleted))
	assert.Error(t, CanCancel(StatusExpired))

	assert.Error(t, CanComplete(StatusPending))
	assert.NoError(t, CanComplete(StatusConfirmed))
	assert.Error(t, CanComplete(StatusCancelled))

	assert.True(t, httperr.IsBusiness(CanComplete(StatusPending), "invalid_state"))
}

func TestShouldExpire(t *testing.T) {
	now := date(2026, time.March, 9).Add(12 * time.Hour)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, ShouldExpire(StatusPending, past, now))
	assert.True(t, ShouldExpire(StatusConfirmed, past, now))

	assert.False(t, ShouldExpire(StatusPending, future, now))
	assert.False(t, ShouldExpire(StatusPending, now, now)) // start == now is not overdue
	assert.False(t, ShouldExpire(StatusCancelled, past, now))
	assert.False(t, ShouldExpire(StatusCompleted, past, now))
}

func TestConfirmStampsTimestamp(t *testing.T) {
	now := time.Now()
	r := &models.Reservation{Status: string(StatusPending)}

	require.NoError(t, Confirm(r, now))
	assert.Equal(t, string(StatusConfirmed), r.Status)
	require.NotNil(t, r.ConfirmedAt)
	assert.Equal(t, now, *r.ConfirmedAt)

	// Second confirm is rejected and changes nothing.
	err := Confirm(r, now.Add(time.Minute))
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Equal(t, now, *r.ConfirmedAt)
}

func TestCancelFromBothActiveStates(t *testing.T) {
	now := time.Now()

	pending := &models.Reservation{Status: string(StatusPending)}
	require.NoError(t, Cancel(pending, now))
	assert.Equal(t, string(StatusCancelled), pending.Status)
	assert.NotNil(t, pending.CancelledAt)

	confirmed := &models.Reservation{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(confirmed, now))
	assert.Equal(t, string(StatusCancelled), confirmed.Status)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	now := time.Now()

	r := &models.Reservation{Status: string(StatusPending)}
	assert.Error(t, Complete(r, now))

	r.Status = string(StatusConfirmed)
	require.NoError(t, Complete(r, now))
	assert.Equal(t, string(StatusCompleted), r.Status)
	assert.NotNil(t, r.CompletedAt)
}

func TestExpireIsGuarded(t *testing.T) {
	now := time.Now()

	// A confirmed visit that already started can still be completed; Expire
	// only fires on active rows whose start has passed.
	overdue := &models.Reservation{
		Status:   string(StatusPending),
		StartsAt: now.Add(-time.Hour),
	}
	Expire(overdue, now)
	assert.Equal(t, string(StatusExpired), overdue.Status)
	assert.NotNil(t, overdue.ExpiredAt)

	upcoming := &models.Reservation{
		Status:   string(StatusConfirmed),
		StartsAt: now.Add(time.Hour),
	}
	Expire(upcoming, now)
	assert.Equal(t, string(StatusConfirmed), upcoming.Status)
	assert.Nil(t, upcoming.ExpiredAt)

	done := &models.Reservation{
		Status:   string(StatusCompleted),
		StartsAt: now.Add(-time.Hour),
	}
	Expire(done, now)
	assert.Equal(t, string(StatusCompleted), done.Status)
}
