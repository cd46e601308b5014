package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// transientRetryBackoff is how long to wait before the single retry of a
// failed transaction.
const transientRetryBackoff = 100 * time.Millisecond

// isTransientStoreError reports whether an error is worth retrying. Domain
// errors and constraint violations never are; a busy or locked database is.
func isTransientStoreError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "connection")
}

// withTransaction runs fn inside a transaction, retrying once after a short
// backoff when the store fails transiently. The function must be safe to run
// twice; conflict re-checks inside it make that hold for the write paths.
func withTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if isTransientStoreError(err) {
		time.Sleep(transientRetryBackoff)
		err = db.Transaction(fn)
	}
	return err
}
