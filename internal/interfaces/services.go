package interfaces

import (
	"context"

	"github.com/jstanton/wagerbook/internal/models"
)

// Bet list filter and sort options, matching the history view contract.
const (
	FilterAll    = "all"
	FilterWins   = "wins"
	FilterLosses = "losses"

	SortDate   = "date"
	SortProfit = "profit"
	SortStake  = "stake"
)

// ListOptions configures bet listing.
type ListOptions struct {
	Filter string // "all" (default), "wins", "losses"
	Sort   string // "date" (default), "profit", or "stake", all descending
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// LedgerService manages bet, deposit, and withdrawal records and derives
// the analytics report from them.
type LedgerService interface {
	// Bets
	AddBet(ctx context.Context, userID string, bet *models.Bet) (*models.Bet, error)
	UpdateBet(ctx context.Context, userID string, bet *models.Bet) (*models.Bet, error)
	DeleteBet(ctx context.Context, userID, id string) error
	GetBet(ctx context.Context, userID, id string) (*models.Bet, error)
	ListBets(ctx context.Context, userID string, opts ListOptions) ([]*models.Bet, error)
	ListCashedOut(ctx context.Context, userID string) ([]*models.Bet, error)

	// ImportCSV parses a sportsbook CSV export (DraftKings format) and adds
	// the resulting bets.
	ImportCSV(ctx context.Context, userID string, data []byte) (*ImportResult, error)

	// Deposits
	AddDeposit(ctx context.Context, userID string, deposit *models.Deposit) (*models.Deposit, error)
	DeleteDeposit(ctx context.Context, userID, id string) error
	ListDeposits(ctx context.Context, userID string) ([]*models.Deposit, error)

	// Withdrawals
	AddWithdrawal(ctx context.Context, userID string, withdrawal *models.Withdrawal) (*models.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, userID string, withdrawal *models.Withdrawal) (*models.Withdrawal, error)
	DeleteWithdrawal(ctx context.Context, userID, id string) error
	ListWithdrawals(ctx context.Context, userID string) ([]*models.Withdrawal, error)

	// Analytics
	Stats(ctx context.Context, userID string) (*models.MetricsReport, error)
	CalendarMonth(ctx context.Context, userID string, year, month int) (*models.CalendarMonth, error)
	RenderTrendChart(ctx context.Context, userID string) ([]byte, error)
}

// UserService manages account registration and login.
type UserService interface {
	Register(ctx context.Context, userID, email, password string) (*models.InternalUser, error)
	Authenticate(ctx context.Context, userID, password string) (*models.InternalUser, error)
	Get(ctx context.Context, userID string) (*models.InternalUser, error)
	Delete(ctx context.Context, userID string) error
}
