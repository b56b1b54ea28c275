package main

import (
	"fmt"

	"github.com/ajharbinger/vetted-api/internal/api"
	"github.com/ajharbinger/vetted-api/internal/database"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/pkg/config"
)

// openStorage opens the configured backend. The returned check is nil for
// backends that live in-process.
func openStorage(cfg *config.Config, log logger.Logger) (*repository.Repositories, api.StorageCheck, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		stats := db.GetStats()
		log.Info("Connected to postgres", "max_open_connections", stats.MaxOpenConnections, "max_idle_connections", stats.MaxIdleConns)
		return repository.NewSQLRepositories(db.DB, repository.Postgres), db.PingContext, nil

	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Opened sqlite database", "path", cfg.SQLitePath)
		return repository.NewSQLRepositories(db, repository.SQLite), db.PingContext, nil

	case config.StorageBadger:
		repos, err := repository.NewBadgerRepositories(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Opened badger store", "path", cfg.BadgerPath)
		return repos, nil, nil

	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryRepositories(), nil, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
