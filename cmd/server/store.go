package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/aniweb/internal/config"
	"github.com/actuallystonmai/aniweb/internal/filestore"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/actuallystonmai/aniweb/internal/repository"
	"github.com/actuallystonmai/aniweb/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"
)

type backend interface {
	service.Store
	Close() error
}

// openStore returns the backend selected by STORE_DRIVER. The Postgres one is
// migrated before it is handed out.
func openStore(ctx context.Context, cfg *config.Config) (backend, error) {
	if cfg.StoreDriver == config.StoreFile {
		store, err := filestore.Open(afero.NewOsFs(), cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logging.For("store").WithField("dir", cfg.DataDir).Info("using file store")
		return store, nil
	}

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := repo.MigrateUp(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to migrate up: %w", err)
	}
	return repo, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (*repository.Repository, error) {
	if cfg.StoreDriver != config.StorePostgres {
		return nil, errors.New("migrations need STORE_DRIVER=postgres")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := waitForDB(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logging.For("store").Info("connected to PostgreSQL")
	return repository.New(pool), nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.For("store")
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Infof("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}
