package surrealdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstanton/wagerbook/internal/models"
)

func TestGetUser(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	user := &models.InternalUser{
		UserID:       "testuser1",
		Email:        "test@example.com",
		PasswordHash: "hash123",
		Role:         "user",
		CreatedAt:    time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "testuser1")
	require.NoError(t, err)
	assert.Equal(t, "testuser1", got.UserID)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "user", got.Role)
}

func TestGetUserNotFound(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	_, err := store.GetUser(ctx, "nonexistent")
	require.Error(t, err)
}

func TestSaveUserOverwrite(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	user := &models.InternalUser{
		UserID:       "overwrite_user",
		Email:        "v1@test.com",
		PasswordHash: "hash1",
		Role:         "user",
		CreatedAt:    time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	user.Email = "v2@test.com"
	user.Role = "admin"
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "overwrite_user")
	require.NoError(t, err)
	assert.Equal(t, "v2@test.com", got.Email)
	assert.Equal(t, "admin", got.Role)
}

func TestGetUserByEmail(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	user := &models.InternalUser{
		UserID:       "email_user",
		Email:        "findme@example.com",
		PasswordHash: "hash",
		Role:         "user",
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUserByEmail(ctx, "findme@example.com")
	require.NoError(t, err)
	assert.Equal(t, "email_user", got.UserID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
}

func TestDeleteUser(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	user := &models.InternalUser{UserID: "doomed", Email: "doomed@test.com", Role: "user"}
	require.NoError(t, store.SaveUser(ctx, user))
	require.NoError(t, store.DeleteUser(ctx, "doomed"))

	_, err := store.GetUser(ctx, "doomed")
	require.Error(t, err)

	// Deleting an absent user is not an error
	require.NoError(t, store.DeleteUser(ctx, "doomed"))
}

func TestListUsers(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	for _, id := range []string{"list_a", "list_b"} {
		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: id, Role: "user"}))
	}

	ids, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "list_a")
	assert.Contains(t, ids, "list_b")
}

func TestUserKVRoundTrip(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SetUserKV(ctx, "kvuser", "display_currency", "USD"))

	got, err := store.GetUserKV(ctx, "kvuser", "display_currency")
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Value)

	require.NoError(t, store.SetUserKV(ctx, "kvuser", "display_currency", "AUD"))
	got, err = store.GetUserKV(ctx, "kvuser", "display_currency")
	require.NoError(t, err)
	assert.Equal(t, "AUD", got.Value)

	require.NoError(t, store.DeleteUserKV(ctx, "kvuser", "display_currency"))
	_, err = store.GetUserKV(ctx, "kvuser", "display_currency")
	require.Error(t, err)
}

func TestUserKVIsolatedPerUser(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SetUserKV(ctx, "alice", "theme", "dark"))
	require.NoError(t, store.SetUserKV(ctx, "bob", "theme", "light"))

	got, err := store.GetUserKV(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value)
}

func TestSystemKV(t *testing.T) {
	db := testDB(t)
	store := NewInternalStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SetSystemKV(ctx, "schema_version", "1"))

	val, err := store.GetSystemKV(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	_, err = store.GetSystemKV(ctx, "never_set")
	require.Error(t, err)
}
