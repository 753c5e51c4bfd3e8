package app

import (
	"context"
	"fmt"

	"github.com/nivora/nivora/internal/config"
	"github.com/nivora/nivora/internal/database"
	"github.com/nivora/nivora/internal/store"
	log "github.com/sirupsen/logrus"
)

// openStore opens the configured backend and returns it with a function releasing it.
func openStore(cfg config.Application) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.MemoryBackend:
		log.Warn("Using the in-memory store, data will be lost on restart")
		return store.NewMemoryStore(), func() error { return nil }, nil

	case config.SQLiteBackend:
		db, err := database.OpenSQLite(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.NewSQLiteStore(db)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using the SQLite store at %s", cfg.Store.SQLite.Path)
		return s, sqlDB.Close, nil

	case config.PostgresBackend:
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(context.Background(), cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using the Postgres store at %s:%d", cfg.Database.Host, cfg.Database.Port)
		return store.NewPostgresStore(pool), func() error {
			pool.Close()
			return nil
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
