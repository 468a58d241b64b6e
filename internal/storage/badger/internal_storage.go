package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/models"
)

// internalStorage implements interfaces.InternalStore on BadgerHold.
type internalStorage struct {
	store  *Store
	logger *common.Logger
}

// NewInternalStorage creates a new InternalStore backed by BadgerHold.
func NewInternalStorage(store *Store, logger *common.Logger) *internalStorage {
	return &internalStorage{store: store, logger: logger}
}

func (s *internalStorage) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	var user models.InternalUser
	err := s.store.db.Get("user:"+userID, &user)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s' not found", userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

func (s *internalStorage) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	var users []models.InternalUser
	if err := s.store.db.Find(&users, badgerhold.Where("Email").Eq(email)); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with email '%s' not found", email)
	}
	return &users[0], nil
}

func (s *internalStorage) SaveUser(_ context.Context, user *models.InternalUser) error {
	if err := s.store.db.Upsert("user:"+user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	s.logger.Debug().Str("user_id", user.UserID).Msg("User saved")
	return nil
}

func (s *internalStorage) DeleteUser(_ context.Context, userID string) error {
	err := s.store.db.Delete("user:"+userID, models.InternalUser{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user_id", userID).Msg("User deleted")
	return nil
}

func (s *internalStorage) ListUsers(_ context.Context) ([]string, error) {
	var users []models.InternalUser
	if err := s.store.db.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.UserID
	}
	return ids, nil
}

func (s *internalStorage) GetUserKV(_ context.Context, userID, key string) (*models.UserKeyValue, error) {
	var kv models.UserKeyValue
	err := s.store.db.Get("ukv:"+userID+"_"+key, &kv)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("key '%s' not found for user '%s'", key, userID)
		}
		return nil, fmt.Errorf("failed to get user KV '%s': %w", key, err)
	}
	return &kv, nil
}

func (s *internalStorage) SetUserKV(_ context.Context, userID, key, value string) error {
	kv := models.UserKeyValue{UserID: userID, Key: key, Value: value}
	if err := s.store.db.Upsert("ukv:"+userID+"_"+key, &kv); err != nil {
		return fmt.Errorf("failed to set user KV '%s': %w", key, err)
	}
	return nil
}

func (s *internalStorage) DeleteUserKV(_ context.Context, userID, key string) error {
	err := s.store.db.Delete("ukv:"+userID+"_"+key, models.UserKeyValue{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user KV '%s': %w", key, err)
	}
	return nil
}

// kvEntry represents a system key-value pair stored in BadgerDB.
type kvEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

func (s *internalStorage) GetSystemKV(_ context.Context, key string) (string, error) {
	var entry kvEntry
	err := s.store.db.Get("skv:"+key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("key '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *internalStorage) SetSystemKV(_ context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	if err := s.store.db.Upsert("skv:"+key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *internalStorage) Close() error {
	return nil
}
