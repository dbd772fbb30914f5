// Package di provides dependency injection for database connections.
package di

import (
	"fmt"
	"path/filepath"

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens market.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// market.db - daily prices and instrument metadata
	marketDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "market.db"),
		Driver:  cfg.DBDriver,
		Profile: database.ProfileStandard,
		Name:    "market",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize market database: %w", err)
	}

	if err := marketDB.Migrate(); err != nil {
		marketDB.Close()
		return nil, fmt.Errorf("failed to migrate market database: %w", err)
	}
	container.MarketDB = marketDB

	log.Info().
		Str("path", marketDB.Path()).
		Str("driver", marketDB.Driver()).
		Msg("Market database ready")

	return container, nil
}
