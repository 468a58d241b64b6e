package surrealdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/models"
)

// LedgerStore persists bets, deposits, and withdrawals. Record IDs are
// namespaced per user (<userID>_<id>) so two users can never collide on the
// same client-generated identifier.
type LedgerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewLedgerStore(db *surrealdb.DB, logger *common.Logger) *LedgerStore {
	return &LedgerStore{
		db:     db,
		logger: logger,
	}
}

func ledgerID(userID, id string) string {
	return userID + "_" + id
}

func (s *LedgerStore) GetBet(ctx context.Context, userID, id string) (*models.Bet, error) {
	bet, err := surrealdb.Select[models.Bet](ctx, s.db, surrealmodels.NewRecordID("bet", ledgerID(userID, id)))
	if err != nil {
		return nil, fmt.Errorf("failed to select bet: %w", err)
	}
	if bet == nil {
		return nil, errors.New("bet not found")
	}
	return bet, nil
}

func (s *LedgerStore) PutBet(ctx context.Context, bet *models.Bet) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("bet", ledgerID(bet.UserID, bet.ID)),
		"record": bet,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Bet](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put bet after retries: %w", lastErr)
}

func (s *LedgerStore) DeleteBet(ctx context.Context, userID, id string) error {
	_, err := surrealdb.Delete[models.Bet](ctx, s.db, surrealmodels.NewRecordID("bet", ledgerID(userID, id)))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListBets(ctx context.Context, userID string) ([]*models.Bet, error) {
	sql := "SELECT * FROM bet WHERE user_id = $user_id ORDER BY created_at DESC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Bet](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	mapped := []*models.Bet{}
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *LedgerStore) PutDeposit(ctx context.Context, deposit *models.Deposit) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("deposit", ledgerID(deposit.UserID, deposit.ID)),
		"record": deposit,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Deposit](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put deposit after retries: %w", lastErr)
}

func (s *LedgerStore) DeleteDeposit(ctx context.Context, userID, id string) error {
	_, err := surrealdb.Delete[models.Deposit](ctx, s.db, surrealmodels.NewRecordID("deposit", ledgerID(userID, id)))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListDeposits(ctx context.Context, userID string) ([]*models.Deposit, error) {
	sql := "SELECT * FROM deposit WHERE user_id = $user_id ORDER BY created_at DESC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Deposit](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}

	mapped := []*models.Deposit{}
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *LedgerStore) PutWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("withdrawal", ledgerID(withdrawal.UserID, withdrawal.ID)),
		"record": withdrawal,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Withdrawal](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put withdrawal after retries: %w", lastErr)
}

func (s *LedgerStore) DeleteWithdrawal(ctx context.Context, userID, id string) error {
	_, err := surrealdb.Delete[models.Withdrawal](ctx, s.db, surrealmodels.NewRecordID("withdrawal", ledgerID(userID, id)))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListWithdrawals(ctx context.Context, userID string) ([]*models.Withdrawal, error) {
	sql := "SELECT * FROM withdrawal WHERE user_id = $user_id ORDER BY created_at DESC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Withdrawal](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}

	mapped := []*models.Withdrawal{}
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *LedgerStore) Close() error {
	return nil
}
