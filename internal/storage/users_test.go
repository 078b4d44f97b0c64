package storage

import (
	"context"
	"testing"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerUser(t *testing.T, s *Storage, email string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), NewUser{
		Name:     "Asha Nair",
		Email:    email,
		Password: "a-strong-password",
	}, bcrypt.MinCost)
	require.NoError(t, err)
	return user
}

func TestCreateUser(t *testing.T) {
	s := newTestStorage(t)

	user := registerUser(t, s, "Asha@Example.com")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "a-strong-password", user.PasswordHash)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStorage(t)
	registerUser(t, s, "asha@example.com")

	_, err := s.CreateUser(context.Background(), NewUser{
		Name:     "Other",
		Email:    "ASHA@example.com",
		Password: "another-password",
	}, bcrypt.MinCost)
	assert.True(t, apperr.IsConflict(err))
}

func TestAuthenticateUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	registerUser(t, s, "asha@example.com")

	user, err := s.AuthenticateUser(ctx, "asha@example.com", "a-strong-password")
	require.NoError(t, err)
	require.NotNil(t, user)

	fresh, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.LoginCount)
	assert.NotNil(t, fresh.LastLoginAt)
}

func TestAuthenticateUserFailuresIndistinguishable(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	registered := registerUser(t, s, "asha@example.com")

	// Unknown email
	user, err := s.AuthenticateUser(ctx, "nobody@example.com", "whatever")
	require.NoError(t, err)
	assert.Nil(t, user)

	// Wrong password
	user, err = s.AuthenticateUser(ctx, "asha@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	// Deactivated account with correct password
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", registered.ID).Update("active", false).Error)
	user, err = s.AuthenticateUser(ctx, "asha@example.com", "a-strong-password")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUserProfile(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	registered := registerUser(t, s, "asha@example.com")

	name := "Asha N"
	updated, err := s.UpdateUserProfile(ctx, registered.ID, ProfilePatch{Name: &name}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, "Asha N", updated.Name)
}

func TestPasswordChangeRequiresCurrentPassword(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	registered := registerUser(t, s, "asha@example.com")

	_, err := s.UpdateUserProfile(ctx, registered.ID, ProfilePatch{
		NewPassword: "brand-new-password",
	}, bcrypt.MinCost)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.From(err).Code)

	_, err = s.UpdateUserProfile(ctx, registered.ID, ProfilePatch{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-password",
	}, bcrypt.MinCost)
	require.Error(t, err)
	assert.Equal(t, "AUTH_ERROR", apperr.From(err).Code)

	_, err = s.UpdateUserProfile(ctx, registered.ID, ProfilePatch{
		CurrentPassword: "a-strong-password",
		NewPassword:     "brand-new-password",
	}, bcrypt.MinCost)
	require.NoError(t, err)

	user, err := s.AuthenticateUser(ctx, "asha@example.com", "brand-new-password")
	require.NoError(t, err)
	assert.NotNil(t, user)
}
