package badger

import (
	"fmt"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
)

// Manager implements interfaces.StorageManager over a single embedded
// BadgerHold database.
type Manager struct {
	store  *Store
	logger *common.Logger

	internalStore *internalStorage
	ledgerStore   *ledgerStorage
}

// NewManager opens the embedded database at the configured path.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded store: %w", err)
	}

	m := &Manager{
		store:  store,
		logger: logger,
	}
	m.internalStore = NewInternalStorage(store, logger)
	m.ledgerStore = NewLedgerStorage(store, logger)

	logger.Info().Str("path", config.Storage.Path).Msg("Embedded storage manager initialized")
	return m, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internalStore
}

func (m *Manager) LedgerStore() interfaces.LedgerStore {
	return m.ledgerStore
}

func (m *Manager) Close() error {
	return m.store.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
