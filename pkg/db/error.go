package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint
// violation on any of the supported dialects.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	// PostgreSQL without a typed error in the chain
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// IsInvalidEnumErr reports whether err is the store rejecting a value
// against a column-level enumeration. Legacy schemas keep the activity
// action type as a database enum, so a write with a newer action type
// fails with this class of error rather than a generic write error.
func IsInvalidEnumErr(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 22P02 invalid_text_representation covers enum casts.
		if pgErr.Code == "22P02" {
			return true
		}
	}

	if strings.Contains(err.Error(), "invalid input value for enum") {
		return true
	}

	// MySQL rejects unknown ENUM values with a data-truncated error.
	if strings.Contains(err.Error(), "Data truncated for column") {
		return true
	}

	// SQLite schemas emulate the enum with a CHECK constraint.
	if strings.Contains(err.Error(), "CHECK constraint failed") {
		return true
	}

	return false
}
