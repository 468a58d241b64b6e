package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/models"
)

// ledgerStorage implements interfaces.LedgerStore on BadgerHold. Keys carry
// a type prefix plus the user-scoped record ID so types never collide.
type ledgerStorage struct {
	store  *Store
	logger *common.Logger
}

// NewLedgerStorage creates a new LedgerStore backed by BadgerHold.
func NewLedgerStorage(store *Store, logger *common.Logger) *ledgerStorage {
	return &ledgerStorage{store: store, logger: logger}
}

func (s *ledgerStorage) GetBet(_ context.Context, userID, id string) (*models.Bet, error) {
	var bet models.Bet
	err := s.store.db.Get("bet:"+userID+"_"+id, &bet)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("bet '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get bet '%s': %w", id, err)
	}
	return &bet, nil
}

func (s *ledgerStorage) PutBet(_ context.Context, bet *models.Bet) error {
	if err := s.store.db.Upsert("bet:"+bet.UserID+"_"+bet.ID, bet); err != nil {
		return fmt.Errorf("failed to save bet: %w", err)
	}
	s.logger.Debug().Str("bet_id", bet.ID).Msg("Bet saved")
	return nil
}

func (s *ledgerStorage) DeleteBet(_ context.Context, userID, id string) error {
	err := s.store.db.Delete("bet:"+userID+"_"+id, models.Bet{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete bet '%s': %w", id, err)
	}
	return nil
}

func (s *ledgerStorage) ListBets(_ context.Context, userID string) ([]*models.Bet, error) {
	var bets []models.Bet
	if err := s.store.db.Find(&bets, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	sort.SliceStable(bets, func(i, j int) bool {
		return bets[i].CreatedAt.After(bets[j].CreatedAt)
	})
	mapped := make([]*models.Bet, len(bets))
	for i := range bets {
		mapped[i] = &bets[i]
	}
	return mapped, nil
}

func (s *ledgerStorage) PutDeposit(_ context.Context, deposit *models.Deposit) error {
	if err := s.store.db.Upsert("deposit:"+deposit.UserID+"_"+deposit.ID, deposit); err != nil {
		return fmt.Errorf("failed to save deposit: %w", err)
	}
	return nil
}

func (s *ledgerStorage) DeleteDeposit(_ context.Context, userID, id string) error {
	err := s.store.db.Delete("deposit:"+userID+"_"+id, models.Deposit{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete deposit '%s': %w", id, err)
	}
	return nil
}

func (s *ledgerStorage) ListDeposits(_ context.Context, userID string) ([]*models.Deposit, error) {
	var deposits []models.Deposit
	if err := s.store.db.Find(&deposits, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	sort.SliceStable(deposits, func(i, j int) bool {
		return deposits[i].CreatedAt.After(deposits[j].CreatedAt)
	})
	mapped := make([]*models.Deposit, len(deposits))
	for i := range deposits {
		mapped[i] = &deposits[i]
	}
	return mapped, nil
}

func (s *ledgerStorage) PutWithdrawal(_ context.Context, withdrawal *models.Withdrawal) error {
	if err := s.store.db.Upsert("withdrawal:"+withdrawal.UserID+"_"+withdrawal.ID, withdrawal); err != nil {
		return fmt.Errorf("failed to save withdrawal: %w", err)
	}
	return nil
}

func (s *ledgerStorage) DeleteWithdrawal(_ context.Context, userID, id string) error {
	err := s.store.db.Delete("withdrawal:"+userID+"_"+id, models.Withdrawal{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete withdrawal '%s': %w", id, err)
	}
	return nil
}

func (s *ledgerStorage) ListWithdrawals(_ context.Context, userID string) ([]*models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := s.store.db.Find(&withdrawals, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})
	mapped := make([]*models.Withdrawal, len(withdrawals))
	for i := range withdrawals {
		mapped[i] = &withdrawals[i]
	}
	return mapped, nil
}

func (s *ledgerStorage) Close() error {
	return nil
}
