package app

import (
	"context"
	"errors"
	"time"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/repository"
)

// Migrate applies the delivery schema to the configured PostgreSQL database.
func Migrate(ctx context.Context, cfg *config.Config, logger logx.Logger) error {
	if cfg.Storage == config.StorageMemory {
		return errors.New("migrate needs postgres storage")
	}
	if logger == nil {
		logger = NewLogger(cfg)
	}
	pool, err := connectDbWithRetry(ctx, logger, cfg.DB.DSN(), 5, time.Second)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		return err
	}
	logger.Info("schema migrated", logx.String("db", cfg.DB.Name))
	return nil
}
