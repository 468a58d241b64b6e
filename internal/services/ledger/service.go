// Package ledger provides bet, deposit, and withdrawal record management and
// derives the analytics report through the stats engine.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/models"
	"github.com/jstanton/wagerbook/internal/services/stats"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	hub     *Hub
}

// NewService creates a new ledger service. hub may be nil when change
// notifications are not wanted (tests, one-shot tools).
func NewService(storage interfaces.StorageManager, logger *common.Logger, hub *Hub) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		hub:     hub,
	}
}

func (s *Service) notify(entity, action, id, userID string) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(models.LedgerEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	})
}

// normalizeDate strips any time suffix so stored dates are plain YYYY-MM-DD.
func normalizeDate(date string) string {
	if idx := strings.IndexByte(date, 'T'); idx >= 0 {
		return date[:idx]
	}
	return date
}

func validateBet(bet *models.Bet) error {
	if bet == nil {
		return errors.New("bet is required")
	}
	if strings.TrimSpace(bet.Game) == "" {
		return errors.New("game is required")
	}
	if bet.Stake < 0 {
		return errors.New("stake cannot be negative")
	}
	if bet.ReturnAmount < 0 {
		return errors.New("return amount cannot be negative")
	}
	return nil
}

// AddBet stores a new bet. The ID is generated server-side and profit is
// derived from stake and return regardless of what the client sent.
func (s *Service) AddBet(ctx context.Context, userID string, bet *models.Bet) (*models.Bet, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	bet.ID = uuid.NewString()
	bet.UserID = userID
	bet.Date = normalizeDate(bet.Date)
	bet.Profit = bet.ReturnAmount - bet.Stake
	bet.CreatedAt = time.Now()

	if err := s.storage.LedgerStore().PutBet(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to add bet: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("bet_id", bet.ID).Str("game", bet.Game).Msg("Bet added")
	s.notify("bet", "created", bet.ID, userID)
	return bet, nil
}

// UpdateBet replaces an existing bet. The stored creation time survives the
// update so list ordering is stable.
func (s *Service) UpdateBet(ctx context.Context, userID string, bet *models.Bet) (*models.Bet, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	if bet.ID == "" {
		return nil, errors.New("bet id is required")
	}

	existing, err := s.storage.LedgerStore().GetBet(ctx, userID, bet.ID)
	if err != nil {
		return nil, fmt.Errorf("bet not found: %w", err)
	}

	bet.UserID = userID
	bet.Date = normalizeDate(bet.Date)
	bet.Profit = bet.ReturnAmount - bet.Stake
	bet.CreatedAt = existing.CreatedAt

	if err := s.storage.LedgerStore().PutBet(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to update bet: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("bet_id", bet.ID).Msg("Bet updated")
	s.notify("bet", "updated", bet.ID, userID)
	return bet, nil
}

func (s *Service) DeleteBet(ctx context.Context, userID, id string) error {
	if err := s.storage.LedgerStore().DeleteBet(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("bet_id", id).Msg("Bet deleted")
	s.notify("bet", "deleted", id, userID)
	return nil
}

func (s *Service) GetBet(ctx context.Context, userID, id string) (*models.Bet, error) {
	bet, err := s.storage.LedgerStore().GetBet(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// ListBets returns the user's bets filtered and sorted per opts. All sort
// orders are descending; date ties fall back to insertion order.
func (s *Service) ListBets(ctx context.Context, userID string, opts interfaces.ListOptions) ([]*models.Bet, error) {
	bets, err := s.storage.LedgerStore().ListBets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	switch opts.Filter {
	case "", interfaces.FilterAll:
	case interfaces.FilterWins:
		bets = filterBets(bets, func(b *models.Bet) bool { return b.IsWin() })
	case interfaces.FilterLosses:
		bets = filterBets(bets, func(b *models.Bet) bool { return !b.IsWin() })
	default:
		return nil, fmt.Errorf("unknown filter: %s", opts.Filter)
	}

	switch opts.Sort {
	case "", interfaces.SortDate:
		sort.SliceStable(bets, func(i, j int) bool { return bets[i].Date > bets[j].Date })
	case interfaces.SortProfit:
		sort.SliceStable(bets, func(i, j int) bool { return bets[i].Profit > bets[j].Profit })
	case interfaces.SortStake:
		sort.SliceStable(bets, func(i, j int) bool { return bets[i].Stake > bets[j].Stake })
	default:
		return nil, fmt.Errorf("unknown sort: %s", opts.Sort)
	}

	return bets, nil
}

func filterBets(bets []*models.Bet, keep func(*models.Bet) bool) []*models.Bet {
	out := bets[:0:0]
	for _, b := range bets {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Service) ListCashedOut(ctx context.Context, userID string) ([]*models.Bet, error) {
	bets, err := s.storage.LedgerStore().ListBets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	return filterBets(bets, func(b *models.Bet) bool { return b.CashedOut }), nil
}

// AddDeposit stores a bankroll deposit.
func (s *Service) AddDeposit(ctx context.Context, userID string, deposit *models.Deposit) (*models.Deposit, error) {
	if deposit == nil || deposit.Amount <= 0 {
		return nil, errors.New("deposit amount must be positive")
	}

	deposit.ID = uuid.NewString()
	deposit.UserID = userID
	deposit.Date = normalizeDate(deposit.Date)
	deposit.CreatedAt = time.Now()

	if err := s.storage.LedgerStore().PutDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to add deposit: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Float64("amount", deposit.Amount).Msg("Deposit added")
	s.notify("deposit", "created", deposit.ID, userID)
	return deposit, nil
}

func (s *Service) DeleteDeposit(ctx context.Context, userID, id string) error {
	if err := s.storage.LedgerStore().DeleteDeposit(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}
	s.notify("deposit", "deleted", id, userID)
	return nil
}

func (s *Service) ListDeposits(ctx context.Context, userID string) ([]*models.Deposit, error) {
	deposits, err := s.storage.LedgerStore().ListDeposits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, nil
}

// AddWithdrawal stores a withdrawal record. Withdrawals never affect the
// analytics report; they exist for bankroll tracking on the dashboard.
func (s *Service) AddWithdrawal(ctx context.Context, userID string, withdrawal *models.Withdrawal) (*models.Withdrawal, error) {
	if withdrawal == nil || withdrawal.Amount <= 0 {
		return nil, errors.New("withdrawal amount must be positive")
	}
	if strings.TrimSpace(withdrawal.Platform) == "" {
		return nil, errors.New("platform is required")
	}

	withdrawal.ID = uuid.NewString()
	withdrawal.UserID = userID
	withdrawal.Date = normalizeDate(withdrawal.Date)
	withdrawal.CreatedAt = time.Now()

	if err := s.storage.LedgerStore().PutWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to add withdrawal: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Float64("amount", withdrawal.Amount).Msg("Withdrawal added")
	s.notify("withdrawal", "created", withdrawal.ID, userID)
	return withdrawal, nil
}

func (s *Service) UpdateWithdrawal(ctx context.Context, userID string, withdrawal *models.Withdrawal) (*models.Withdrawal, error) {
	if withdrawal == nil || withdrawal.ID == "" {
		return nil, errors.New("withdrawal id is required")
	}
	if withdrawal.Amount <= 0 {
		return nil, errors.New("withdrawal amount must be positive")
	}

	withdrawal.UserID = userID
	withdrawal.Date = normalizeDate(withdrawal.Date)
	if withdrawal.CreatedAt.IsZero() {
		withdrawal.CreatedAt = time.Now()
	}

	if err := s.storage.LedgerStore().PutWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to update withdrawal: %w", err)
	}
	s.notify("withdrawal", "updated", withdrawal.ID, userID)
	return withdrawal, nil
}

func (s *Service) DeleteWithdrawal(ctx context.Context, userID, id string) error {
	if err := s.storage.LedgerStore().DeleteWithdrawal(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}
	s.notify("withdrawal", "deleted", id, userID)
	return nil
}

func (s *Service) ListWithdrawals(ctx context.Context, userID string) ([]*models.Withdrawal, error) {
	withdrawals, err := s.storage.LedgerStore().ListWithdrawals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

// loadCanonical fetches and canonicalizes the user's full bet collection.
func (s *Service) loadCanonical(ctx context.Context, userID string) ([]models.CanonicalBet, error) {
	bets, err := s.storage.LedgerStore().ListBets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bets: %w", err)
	}
	return stats.Canonicalize(bets), nil
}

// Stats recomputes the full metrics report from the user's records.
func (s *Service) Stats(ctx context.Context, userID string) (*models.MetricsReport, error) {
	canonical, err := s.loadCanonical(ctx, userID)
	if err != nil {
		return nil, err
	}

	depositPtrs, err := s.storage.LedgerStore().ListDeposits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deposits: %w", err)
	}
	deposits := make([]models.Deposit, 0, len(depositPtrs))
	for _, d := range depositPtrs {
		deposits = append(deposits, *d)
	}

	return stats.Compute(canonical, deposits), nil
}

// CalendarMonth returns the daily profit view for a given month.
func (s *Service) CalendarMonth(ctx context.Context, userID string, year, month int) (*models.CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	canonical, err := s.loadCanonical(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := stats.MonthView(canonical, year, month)
	return &view, nil
}

// RenderTrendChart renders the cumulative profit series as a PNG.
func (s *Service) RenderTrendChart(ctx context.Context, userID string) ([]byte, error) {
	report, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.RenderTrendChart(report.ProfitTrend)
}
