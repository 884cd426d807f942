package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres exclusion_violation, raised by the reservations no-overlap
// constraint when two transactions try to commit intersecting intervals.
const pgExclusionViolation = "23P01"

// IsExclusionConflict reports whether err is the database-level overlap
// backstop firing. Callers map it to the same conflict response as the
// in-transaction check.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}
