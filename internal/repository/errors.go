package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index. Uniqueness is enforced by the storage layer, not by a
// check-then-act read.
var ErrDuplicateEmail = errors.New("email address already registered")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
