package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/models"
)

// newDryRunDB opens a gorm handle that renders SQL without touching a server,
// so the statements the repository would send to Postgres can be asserted on.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dryrun dbname=dryrun",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func renderConflictQuery(t *testing.T, excludeID uint) (string, []interface{}) {
	t.Helper()

	db := newDryRunDB(t)
	start := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	var conflicts []models.Reservation
	stmt := conflictQuery(db, 1, excludeID, start, end).Find(&conflicts)
	require.NoError(t, stmt.Error)

	return stmt.Statement.SQL.String(), stmt.Statement.Vars
}

func TestConflictQuerySelectsRowsUnderLock(t *testing.T) {
	sql, vars := renderConflictQuery(t, 0)

	// The lock must ride on a plain row select; Postgres rejects FOR UPDATE
	// on aggregates, which would abort every booking transaction.
	assert.Contains(t, sql, "FOR UPDATE")
	assert.NotContains(t, strings.ToLower(sql), "count(")

	assert.Contains(t, sql, `"reservations"`)
	assert.Contains(t, sql, "starts_at <")
	assert.Contains(t, sql, "ends_at >")
	assert.NotContains(t, sql, "id <>")

	// Half-open overlap binds the candidate's end against starts_at and its
	// start against ends_at.
	require.GreaterOrEqual(t, len(vars), 2)
	endArg, ok := vars[len(vars)-2].(time.Time)
	require.True(t, ok)
	startArg, ok := vars[len(vars)-1].(time.Time)
	require.True(t, ok)
	assert.True(t, endArg.After(startArg))
}

func TestConflictQueryExcludesSelfOnUpdate(t *testing.T) {
	sql, vars := renderConflictQuery(t, 42)

	assert.Contains(t, sql, "id <>")
	assert.Contains(t, sql, "FOR UPDATE")
	assert.NotContains(t, strings.ToLower(sql), "count(")

	assert.Contains(t, vars, uint(42))
}

func TestConflictQueryFiltersActiveRows(t *testing.T) {
	sql, vars := renderConflictQuery(t, 0)

	assert.Contains(t, sql, "status IN")
	assert.Contains(t, sql, "deleted = false")
	assert.Contains(t, vars, "pending")
	assert.Contains(t, vars, "confirmed")
	assert.NotContains(t, vars, "cancelled")
}
