// Package storage selects and assembles the configured storage backend and
// handles migration from the legacy embedded database.
package storage

import (
	"fmt"

	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/storage/badger"
	"github.com/jstanton/wagerbook/internal/storage/surrealdb"
)

// NewStorageManager creates a StorageManager for the configured driver.
// Supported drivers: "surrealdb" (default), "badger".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	driver := config.Storage.Driver
	if driver == "" {
		driver = common.DriverSurrealDB
	}

	switch driver {
	case common.DriverSurrealDB:
		return surrealdb.NewManager(logger, config)

	case common.DriverBadger:
		return badger.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: surrealdb, badger)", driver)
	}
}
