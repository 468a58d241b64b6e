// Package users provides account registration and credential checking.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/models"
)

// Compile-time interface check
var _ interfaces.UserService = (*Service)(nil)

// ErrInvalidCredentials is returned for both an unknown user and a wrong
// password so login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service implements UserService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new user service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// validateUserID checks that a user ID is safe for storage.
// Rejects empty, too long, null bytes, and control characters.
func validateUserID(userID string) string {
	if userID == "" {
		return "user id is required"
	}
	if len(userID) > 128 {
		return "user id must be 128 characters or fewer"
	}
	for _, c := range userID {
		if c < 0x20 || c == 0x7f {
			return "user id contains invalid control characters"
		}
	}
	return ""
}

// Register creates a new account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, userID, email, password string) (*models.InternalUser, error) {
	if errMsg := validateUserID(userID); errMsg != "" {
		return nil, errors.New(errMsg)
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	store := s.storage.InternalStore()
	if _, err := store.GetUser(ctx, userID); err == nil {
		return nil, fmt.Errorf("user '%s' already exists", userID)
	}

	// bcrypt ignores input past 72 bytes; truncate explicitly
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.InternalUser{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if err := store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("User registered")
	return user, nil
}

// Authenticate checks credentials and returns the account on success.
func (s *Service) Authenticate(ctx context.Context, userID, password string) (*models.InternalUser, error) {
	user, err := s.storage.InternalStore().GetUser(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*models.InternalUser, error) {
	user, err := s.storage.InternalStore().GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user '%s' not found", userID)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.storage.InternalStore().DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}
