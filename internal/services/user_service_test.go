package services

import (
	"testing"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.OAuthClient{})
	require.NoError(t, err)

	return db
}

func TestUserServiceCreateUser(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	user, err := svc.CreateUser("Alice@Example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email, "emails are stored lowercased")
	assert.NotEqual(t, "password1", user.PasswordHash)

	// same email again, any casing
	_, err = svc.CreateUser("ALICE@example.com", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceCreateUserDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	// A row the service never saw, standing in for a signup that won a race
	// against this one. The unique index is the only thing in the way, and
	// its violation must come back as ErrEmailTaken, not a raw driver error.
	existing := &models.User{ID: "someone-else", Email: "bob@example.com"}
	require.NoError(t, existing.SetPassword("password1"))
	require.NoError(t, db.Create(existing).Error)

	_, err := svc.CreateUser("bob@example.com", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceAuthenticate(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	created, err := svc.CreateUser("alice@example.com", "password1")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("alice@example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		_, err := svc.Authenticate("ALICE@EXAMPLE.COM", "password1")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("alice@example.com", "password2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate("nobody@example.com", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserServiceGetUserByID(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	created, err := svc.CreateUser("alice@example.com", "password1")
	require.NoError(t, err)

	user, err := svc.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.GetUserByID("no-such-id")
	assert.Error(t, err)
}
