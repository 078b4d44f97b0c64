package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/auth"
	"farmland-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewUser is the validated input for registration
type NewUser struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     models.UserRole
}

// CreateUser registers a user. The plaintext password is hashed here and
// never stored or logged anywhere.
func (s *Storage) CreateUser(ctx context.Context, input NewUser, bcryptCost int) (*models.User, error) {
	email := NormalizeEmail(input.Email)

	existing, err := s.findUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := auth.HashPassword(input.Password, bcryptCost)
	if err != nil {
		log.Printf("[storage] CreateUser hash failed email=%s: %v", email, err)
		return nil, apperr.Internal(err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[storage] CreateUser failed email=%s: %v", email, err)
		return nil, apperr.Database(err)
	}

	log.Printf("[storage] user created id=%s role=%s", user.ID, user.Role)

	s.RecordEvent(ctx, &models.AnalyticsEvent{Event: models.EventUserRegistered})
	return user, nil
}

// GetUserByID returns a user by id
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		log.Printf("[storage] GetUserByID failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}
	return &user, nil
}

// GetUserByEmail returns a user by normalized email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.findUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// findUserByEmail returns (nil, nil) when no user exists, so callers that
// must not distinguish missing users from bad passwords can stay silent
func (s *Storage) findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("[storage] findUserByEmail failed: %v", err)
		return nil, apperr.Database(err)
	}
	return &user, nil
}

// AuthenticateUser verifies credentials. It returns (nil, nil) on unknown
// email, wrong password, or a deactivated account; callers cannot tell the
// cases apart, and a dummy bcrypt compare keeps timing level when the email
// does not exist.
func (s *Storage) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.findUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		auth.BurnCompare(password)
		return nil, nil
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		log.Printf("[storage] failed login attempt user=%s", user.ID)
		return nil, nil
	}
	if !user.Active {
		log.Printf("[storage] login attempt on deactivated account user=%s", user.ID)
		return nil, nil
	}

	// Best-effort login bookkeeping
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(user).
		Updates(map[string]interface{}{
			"last_login_at": &now,
			"login_count":   gorm.Expr("login_count + 1"),
		}).Error; err != nil {
		log.Printf("[storage] login bookkeeping failed user=%s: %v", user.ID, err)
	}

	return user, nil
}

// ProfilePatch carries the self-service profile fields. Changing the
// password requires the current one.
type ProfilePatch struct {
	Name            *string
	Phone           *string
	CurrentPassword string
	NewPassword     string
}

// UpdateUserProfile applies a user's own profile changes
func (s *Storage) UpdateUserProfile(ctx context.Context, id string, patch ProfilePatch, bcryptCost int) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}

	if patch.NewPassword != "" {
		if patch.CurrentPassword == "" {
			return nil, apperr.Validation("Current password is required when changing password",
				apperr.FieldDetail{Field: "current_password", Message: "required"})
		}
		if !auth.CheckPassword(patch.CurrentPassword, user.PasswordHash) {
			return nil, apperr.Authentication("Current password is incorrect")
		}
		hash, err := auth.HashPassword(patch.NewPassword, bcryptCost)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("[storage] UpdateUserProfile failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}

	return s.GetUserByID(ctx, id)
}
