// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (duplicate username, duplicate like/favorite pair).
var ErrDuplicate = errors.New("duplicate record")

// isUniqueViolation reports whether err is a uniqueness-constraint violation
// from the underlying store. GORM's translated error covers PostgreSQL; the
// message checks cover drivers without error translation (SQLite in tests).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
