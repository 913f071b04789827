package main

import (
	"context"
	"fmt"

	"portfolio-analytics/internal/config"
	"portfolio-analytics/internal/events/adapters/memory"
	"portfolio-analytics/internal/events/adapters/postgres"
	"portfolio-analytics/internal/events/adapters/sqlite"
	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"go.uber.org/zap"
)

// releaseStore runs the release function returned by openStore and logs a
// failure instead of dropping it.
func releaseStore(release func() error) {
	if err := release(); err != nil {
		logger.L().Warn("closing storage", zap.Error(err))
	}
}

// openStore returns the configured key-value backend and a function that
// releases it.
func openStore(ctx context.Context, sc config.StorageConfig) (ports.KeyValueStorePort, func() error, error) {
	noop := func() error { return nil }

	switch sc.Driver {
	case config.DriverMemory:
		logger.L().Warn("using in-memory storage, nothing will survive a restart")
		return memory.NewStore(), noop, nil

	case config.DriverPostgres:
		if sc.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("POSTGRES_DSN is not set")
		}
		db, err := postgres.Open(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewKVRepository(postgres.NewSQLDB(db), postgres.DefaultTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.L().Info("storage ready", zap.String("driver", "postgres"))
		return repo, db.Close, nil

	case config.DriverSQLite, "":
		store, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.L().Info("storage ready", zap.String("driver", "sqlite"), zap.String("path", store.Path()))
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}
}
