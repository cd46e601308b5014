package services

import (
	"testing"
	"time"

	"estate_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	hash, err := HashPassword(password)
	assert.NoError(t, err)

	user := &models.User{
		Name:     "Test Agent",
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, VerifyPassword(hash, "correct-horse"))
	assert.False(t, VerifyPassword(hash, "wrong-horse"))
}

func TestAuthenticate(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "agent@example.com", "secret-pass", "agent")

	t.Run("Valid credentials", func(t *testing.T) {
		authed, err := Authenticate(database, "agent@example.com", "secret-pass")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, authed.ID)
		assert.NotNil(t, authed.LastLoginAt)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := Authenticate(database, "agent@example.com", "bad-pass")
		assert.Error(t, err)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := Authenticate(database, "nobody@example.com", "secret-pass")
		assert.Error(t, err)
	})

	t.Run("Inactive account", func(t *testing.T) {
		assert.NoError(t, database.Model(user).Update("is_active", false).Error)
		_, err := Authenticate(database, "agent@example.com", "secret-pass")
		assert.Error(t, err)
	})
}

func TestSessionLifecycle(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "admin@example.com", "secret-pass", "admin")

	session, err := CreateSession(database, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.Len(t, session.Token, SessionTokenLength*2)

	validated, err := ValidateSession(database, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, validated.UserID)
	assert.Equal(t, user.Email, validated.User.Email)

	assert.NoError(t, DeleteSession(database, session.Token))
	_, err = ValidateSession(database, session.Token)
	assert.Error(t, err)
}

func TestExpiredSessions(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "admin2@example.com", "secret-pass", "admin")

	session, err := CreateSession(database, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	// Push the expiry into the past
	assert.NoError(t, database.Model(session).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = ValidateSession(database, session.Token)
	assert.Error(t, err)

	// Cleanup removes it for good
	live, err := CreateSession(database, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	stale, err := CreateSession(database, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.NoError(t, database.Model(stale).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	assert.NoError(t, CleanupExpiredSessions(database))

	var count int64
	database.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = ValidateSession(database, live.Token)
	assert.NoError(t, err)
}
