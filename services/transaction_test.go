package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsTransientStoreError(t *testing.T) {
	assert.False(t, isTransientStoreError(nil))
	assert.False(t, isTransientStoreError(fmt.Errorf("%w: range taken", ErrConflict)))
	assert.False(t, isTransientStoreError(fmt.Errorf("%w: bad date", ErrValidation)))
	assert.False(t, isTransientStoreError(errors.New("UNIQUE constraint failed")))

	assert.True(t, isTransientStoreError(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isTransientStoreError(errors.New("database table is locked")))
}

func TestWithTransactionRetriesOnce(t *testing.T) {
	database := setupTestDB(t)

	attempts := 0
	err := withTransaction(database, func(tx *gorm.DB) error {
		attempts++
		if attempts == 1 {
			return errors.New("database is locked")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)

	// Domain errors come back without a second attempt
	attempts = 0
	err = withTransaction(database, func(tx *gorm.DB) error {
		attempts++
		return fmt.Errorf("%w: slot taken", ErrConflict)
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, attempts)
}
