package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres unique_violation
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a uniqueness-constraint failure,
// either as translated by gorm or as a raw pgx error.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
