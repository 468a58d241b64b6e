package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/models"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Driver = common.DriverBadger
	cfg.Storage.Path = t.TempDir()

	mgr, err := NewManager(common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestUserRoundTrip(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := context.Background()

	user := &models.InternalUser{
		UserID:       "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	got, err = store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)

	_, err = store.GetUser(ctx, "nobody")
	require.Error(t, err)

	require.NoError(t, store.DeleteUser(ctx, "alice"))
	_, err = store.GetUser(ctx, "alice")
	require.Error(t, err)
}

func TestListUsers(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, store.SaveUser(ctx, &models.InternalUser{UserID: id, Role: "user"}))
	}

	ids, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestUserKV(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := context.Background()

	require.NoError(t, store.SetUserKV(ctx, "alice", "theme", "dark"))
	got, err := store.GetUserKV(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value)

	require.NoError(t, store.SetUserKV(ctx, "alice", "theme", "light"))
	got, err = store.GetUserKV(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got.Value)

	require.NoError(t, store.DeleteUserKV(ctx, "alice", "theme"))
	_, err = store.GetUserKV(ctx, "alice", "theme")
	require.Error(t, err)
}

func TestSystemKV(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := context.Background()

	require.NoError(t, store.SetSystemKV(ctx, "schema_version", "2"))
	val, err := store.GetSystemKV(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "2", val)

	_, err = store.GetSystemKV(ctx, "missing")
	require.Error(t, err)
}

func TestBetRoundTrip(t *testing.T) {
	mgr := testManager(t)
	store := mgr.LedgerStore()
	ctx := context.Background()

	bet := &models.Bet{
		ID:           "b1",
		UserID:       "alice",
		Game:         "Chiefs ML",
		Stake:        100,
		ReturnAmount: 250,
		Profit:       150,
		Date:         "2024-03-15",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.PutBet(ctx, bet))

	got, err := store.GetBet(ctx, "alice", "b1")
	require.NoError(t, err)
	assert.Equal(t, "Chiefs ML", got.Game)
	assert.Equal(t, 150.0, got.Profit)

	_, err = store.GetBet(ctx, "bob", "b1")
	require.Error(t, err, "record IDs are user-scoped")

	require.NoError(t, store.DeleteBet(ctx, "alice", "b1"))
	_, err = store.GetBet(ctx, "alice", "b1")
	require.Error(t, err)
}

func TestListBetsNewestFirst(t *testing.T) {
	mgr := testManager(t)
	store := mgr.LedgerStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, store.PutBet(ctx, &models.Bet{
			ID:        id,
			UserID:    "alice",
			Game:      id,
			Stake:     10,
			Date:      "2024-01-01",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	bets, err := store.ListBets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, bets, 3)
	assert.Equal(t, "newest", bets[0].Game)
	assert.Equal(t, "oldest", bets[2].Game)
}

func TestListBetsScopedToUser(t *testing.T) {
	mgr := testManager(t)
	store := mgr.LedgerStore()
	ctx := context.Background()

	require.NoError(t, store.PutBet(ctx, &models.Bet{ID: "a", UserID: "alice", Game: "g", Stake: 1, Date: "2024-01-01"}))
	require.NoError(t, store.PutBet(ctx, &models.Bet{ID: "b", UserID: "bob", Game: "g", Stake: 1, Date: "2024-01-01"}))

	bets, err := store.ListBets(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, bets, 1)

	bets, err = store.ListBets(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, bets)
	assert.Len(t, bets, 0)
}

func TestDepositAndWithdrawalRoundTrip(t *testing.T) {
	mgr := testManager(t)
	store := mgr.LedgerStore()
	ctx := context.Background()

	require.NoError(t, store.PutDeposit(ctx, &models.Deposit{ID: "d1", UserID: "alice", Amount: 300, Date: "2024-03-01", CreatedAt: time.Now()}))
	deposits, err := store.ListDeposits(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, 300.0, deposits[0].Amount)
	require.NoError(t, store.DeleteDeposit(ctx, "alice", "d1"))

	require.NoError(t, store.PutWithdrawal(ctx, &models.Withdrawal{ID: "w1", UserID: "alice", Platform: "FanDuel", Amount: 50, Date: "2024-04-01", CreatedAt: time.Now()}))
	withdrawals, err := store.ListWithdrawals(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, "FanDuel", withdrawals[0].Platform)
	require.NoError(t, store.DeleteWithdrawal(ctx, "alice", "w1"))
}

func TestReopenPersistence(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Driver = common.DriverBadger
	cfg.Storage.Path = t.TempDir()
	logger := common.NewSilentLogger()
	ctx := context.Background()

	mgr, err := NewManager(logger, cfg)
	require.NoError(t, err)
	require.NoError(t, mgr.LedgerStore().PutBet(ctx, &models.Bet{ID: "keep", UserID: "alice", Game: "g", Stake: 1, Date: "2024-01-01"}))
	require.NoError(t, mgr.Close())

	mgr, err = NewManager(logger, cfg)
	require.NoError(t, err)
	defer mgr.Close()

	got, err := mgr.LedgerStore().GetBet(ctx, "alice", "keep")
	require.NoError(t, err)
	assert.Equal(t, "g", got.Game)
}
