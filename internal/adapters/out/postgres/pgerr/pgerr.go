// Package pgerr classifies low-level Postgres errors for the repository
// adapters.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// IsDuplicateKey reports whether err is a unique constraint violation.
// It recognizes both GORM's translated error and the raw driver error, so
// the check holds whether or not error translation is enabled on the
// connection.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return true
	}

	return false
}
