// Package repository is the Postgres backend for profiles, watch history and
// settings.
package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) MigrateUp(ctx context.Context) error {
	return r.runMigration(ctx, "migrations/create_tables.up.sql")
}

func (r *Repository) MigrateDown(ctx context.Context) error {
	return r.runMigration(ctx, "migrations/create_tables.down.sql")
}

func (r *Repository) runMigration(ctx context.Context, name string) error {
	sql, err := migrations.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := r.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration %s: %w", name, err)
	}
	return nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
