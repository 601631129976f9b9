// Package bootstrap handles application initialization and lifecycle
// management for the pageforge service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/unicornmarketers/pageforge/internal/logger"
)

// Start initializes and runs the pageforge service.
func Start() error {
	cfg, configErr := LoadConfig()
	if configErr != nil {
		return fmt.Errorf("config: %w", configErr)
	}

	log, logErr := CreateLogger(cfg)
	if logErr != nil {
		return fmt.Errorf("logger: %w", logErr)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting PageForge",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	db, dbErr := SetupDatabase(cfg)
	if dbErr != nil {
		return fmt.Errorf("database: %w", dbErr)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()
	log.Info("Database connection established")

	server, serverErr := SetupHTTPServer(cfg, db, log)
	if serverErr != nil {
		return fmt.Errorf("server setup: %w", serverErr)
	}

	if runErr := server.Run(context.Background()); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server: %w", runErr)
	}

	log.Info("PageForge stopped")
	return nil
}
