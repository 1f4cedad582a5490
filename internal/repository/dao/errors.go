package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	return nil, false
}

// isUniqueViolation reports whether err is a unique violation on a constraint
// whose name starts with one of prefixes.
func isUniqueViolation(err error, prefixes ...string) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(pgErr.ConstraintName, prefix) ||
			strings.Contains(pgErr.Message, `unique constraint "`+prefix) {
			return true
		}
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgerrcode.ForeignKeyViolation
}
