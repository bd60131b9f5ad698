package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/store"
)

// initializeDatabase opens the log store and waits for it to answer
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	// Create timeout context for this specific operation
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := db.DB().DB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database not reachable within %s: %w", cfg.DBInitTimeout, err)
	}

	log.Printf("Database ready (driver: %s)", cfg.DatabaseDriver)
	return db, nil
}
