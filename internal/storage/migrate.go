package storage

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/models"
)

// MigrateLegacyStore detects a pre-refactor embedded database and migrates
// its records into the current backend.
//
// Detection: if the configured legacy path exists, the old BadgerHold
// database is present. Records are read, coerced into the current models,
// and written to the ledger and internal stores. The old directory is then
// renamed with a .migrated-{timestamp} suffix so the migration runs once.
func MigrateLegacyStore(ctx context.Context, logger *common.Logger, config *common.Config, sm interfaces.StorageManager) error {
	legacyPath := config.Storage.LegacyPath
	if legacyPath == "" {
		return nil
	}
	if info, err := os.Stat(legacyPath); err != nil || !info.IsDir() {
		return nil
	}

	logger.Info().Str("path", legacyPath).Msg("Detected legacy database, migrating")

	opts := badgerhold.DefaultOptions
	opts.Dir = legacyPath
	opts.ValueDir = legacyPath
	opts.Logger = nil
	opts.ReadOnly = true

	oldDB, err := badgerhold.Open(opts)
	if err != nil {
		logger.Warn().Err(err).Msg("Migration: failed to open legacy database, skipping")
		return nil
	}
	defer oldDB.Close()

	migrateUsers(ctx, logger, oldDB, sm.InternalStore())
	migrateLedger(ctx, logger, oldDB, sm.LedgerStore())

	timestamp := time.Now().Format("20060102-150405")
	renamedPath := legacyPath + ".migrated-" + timestamp
	if err := os.Rename(legacyPath, renamedPath); err != nil {
		logger.Warn().Err(err).Msg("Failed to rename legacy directory")
	} else {
		logger.Info().Str("renamed_to", renamedPath).Msg("Legacy database renamed")
	}

	logger.Info().Msg("Migration from legacy store complete")
	return nil
}

// oldUser matches the legacy user struct layout.
type oldUser struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

func migrateUsers(ctx context.Context, logger *common.Logger, oldDB *badgerhold.Store, store interfaces.InternalStore) {
	var users []oldUser
	if err := oldDB.Find(&users, nil); err != nil {
		logger.Warn().Err(err).Msg("Migration: failed to read legacy users")
		return
	}

	count := 0
	for _, u := range users {
		if u.Username == "" {
			continue
		}
		user := &models.InternalUser{
			UserID:       u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			CreatedAt:    time.Now(),
		}
		if err := store.SaveUser(ctx, user); err != nil {
			logger.Warn().Err(err).Str("user", u.Username).Msg("Migration: failed to save user")
			continue
		}
		count++
	}
	logger.Info().Int("count", count).Msg("Migration: users migrated")
}

// oldBet matches the legacy bet layout, where amounts were stored as text
// and the derived profit field was often absent.
type oldBet struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Game         string `json:"game"`
	Stake        string `json:"stake"`
	ReturnAmount string `json:"return_amount"`
	Date         string `json:"date"`
	Odds         string `json:"odds"`
	Category     string `json:"category"`
	SportLeague  string `json:"sport_league"`
	CashedOut    bool   `json:"cashed_out"`
	Live         bool   `json:"live"`
}

type oldCashflow struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Kind     string `json:"kind"` // "deposit" or "withdrawal"
	Platform string `json:"platform"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

func migrateLedger(ctx context.Context, logger *common.Logger, oldDB *badgerhold.Store, store interfaces.LedgerStore) {
	var bets []oldBet
	if err := oldDB.Find(&bets, nil); err != nil {
		logger.Debug().Msg("Migration: no legacy bets found (or different schema)")
	}

	betCount := 0
	for _, ob := range bets {
		if ob.UserID == "" {
			continue
		}
		bet := &models.Bet{
			ID:           ob.ID,
			UserID:       ob.UserID,
			Game:         ob.Game,
			Stake:        parseAmount(ob.Stake),
			ReturnAmount: parseAmount(ob.ReturnAmount),
			Date:         ob.Date,
			Category:     ob.Category,
			SportLeague:  ob.SportLeague,
			CashedOut:    ob.CashedOut,
			Live:         ob.Live,
			CreatedAt:    time.Now(),
		}
		if bet.ID == "" {
			bet.ID = uuid.NewString()
		}
		bet.Profit = bet.ReturnAmount - bet.Stake
		if odds, err := strconv.ParseFloat(ob.Odds, 64); err == nil {
			bet.Odds = &odds
		}
		if err := store.PutBet(ctx, bet); err != nil {
			logger.Warn().Err(err).Str("bet_id", bet.ID).Msg("Migration: failed to save bet")
			continue
		}
		betCount++
	}

	var flows []oldCashflow
	if err := oldDB.Find(&flows, nil); err != nil {
		logger.Debug().Msg("Migration: no legacy cashflows found (or different schema)")
	}

	flowCount := 0
	for _, f := range flows {
		if f.UserID == "" {
			continue
		}
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		var err error
		switch f.Kind {
		case "withdrawal":
			err = store.PutWithdrawal(ctx, &models.Withdrawal{
				ID:        id,
				UserID:    f.UserID,
				Platform:  f.Platform,
				Amount:    parseAmount(f.Amount),
				Date:      f.Date,
				CreatedAt: time.Now(),
			})
		default:
			err = store.PutDeposit(ctx, &models.Deposit{
				ID:        id,
				UserID:    f.UserID,
				Amount:    parseAmount(f.Amount),
				Date:      f.Date,
				CreatedAt: time.Now(),
			})
		}
		if err != nil {
			logger.Warn().Err(err).Str("id", id).Msg("Migration: failed to save cashflow")
			continue
		}
		flowCount++
	}

	logger.Info().Int("bets", betCount).Int("cashflows", flowCount).Msg("Migration: ledger migrated")
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
