package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Driver = common.DriverBadger
	cfg.Storage.Path = t.TempDir()

	mgr, err := storage.NewStorageManager(logger, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	return NewService(mgr, logger)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "sup3rsecret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sup3rsecret")))

	got, err := svc.Authenticate(ctx, "alice", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
}

func TestAuthenticateRejectsBadPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@example.com", "rightpass")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "bob", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nosuchuser", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown user and bad password are indistinguishable")
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "carol@example.com", "pass1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol", "other@example.com", "pass2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "pass")
	require.Error(t, err)

	_, err = svc.Register(ctx, "dave", "a@b.com", "")
	require.Error(t, err)

	_, err = svc.Register(ctx, strings.Repeat("x", 129), "a@b.com", "pass")
	require.Error(t, err)

	_, err = svc.Register(ctx, "bad\x00id", "a@b.com", "pass")
	require.Error(t, err)
}

func TestLongPasswordTruncation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	long := strings.Repeat("a", 100)
	_, err := svc.Register(ctx, "erin", "erin@example.com", long)
	require.NoError(t, err)

	// bcrypt only sees the first 72 bytes
	_, err = svc.Authenticate(ctx, "erin", long[:72]+"different-tail")
	require.NoError(t, err)
}

func TestGetAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "frank", "frank@example.com", "pass")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "frank")
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", got.Email)

	require.NoError(t, svc.Delete(ctx, "frank"))
	_, err = svc.Get(ctx, "frank")
	require.Error(t, err)
}
