// Package interfaces defines service contracts for Wagerbook
package interfaces

import (
	"context"

	"github.com/jstanton/wagerbook/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	InternalStore() InternalStore
	LedgerStore() LedgerStore

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts, per-user config, and system-level KV.
type InternalStore interface {
	// User accounts
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	// Per-user key-value config
	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// LedgerStore manages the per-user betting ledger: bets, deposits, and
// withdrawals. List operations return records in insertion order (newest
// first); the statistics engine establishes its own ordering.
//
// A failed load surfaces as a non-nil error, never as an empty slice, so the
// engine is never asked to compute over a presumed-empty set that is actually
// a failed read.
type LedgerStore interface {
	// Bets
	GetBet(ctx context.Context, userID, id string) (*models.Bet, error)
	PutBet(ctx context.Context, bet *models.Bet) error
	DeleteBet(ctx context.Context, userID, id string) error
	ListBets(ctx context.Context, userID string) ([]*models.Bet, error)

	// Deposits
	PutDeposit(ctx context.Context, deposit *models.Deposit) error
	DeleteDeposit(ctx context.Context, userID, id string) error
	ListDeposits(ctx context.Context, userID string) ([]*models.Deposit, error)

	// Withdrawals
	PutWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error
	DeleteWithdrawal(ctx context.Context, userID, id string) error
	ListWithdrawals(ctx context.Context, userID string) ([]*models.Withdrawal, error)

	Close() error
}
