// Package app wires configuration, storage, and services into the shared
// application core used by cmd/wagerbook-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/services/ledger"
	"github.com/jstanton/wagerbook/internal/services/users"
	"github.com/jstanton/wagerbook/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	Hub           *ledger.Hub
	LedgerService interfaces.LedgerService
	UserService   interfaces.UserService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration: provided path, WAGERBOOK_CONFIG, binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("WAGERBOOK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "wagerbook.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/wagerbook.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// One-time migration from the legacy embedded database
	if err := storage.MigrateLegacyStore(context.Background(), logger, config, storageManager); err != nil {
		logger.Warn().Err(err).Msg("Legacy migration failed, continuing with current store")
	}

	hub := ledger.NewHub(logger)
	go hub.Run()

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		Hub:           hub,
		LedgerService: ledger.NewService(storageManager, logger, hub),
		UserService:   users.NewService(storageManager, logger),
		StartupTime:   startupStart,
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("driver", config.Storage.Driver).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// Close releases storage and stops the change feed.
func (a *App) Close() error {
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
