package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/jackc/pgx/v5"
)

// GetSettings decodes the stored document over the defaults.
func (r *Repository) GetSettings(ctx context.Context) (domain.Settings, error) {
	return getSettings(ctx, r.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1`))
}

func getSettings(_ context.Context, row pgx.Row) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings, nil
		}
		return domain.DefaultSettings(), fmt.Errorf("query settings: %w", err)
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("begin settings update: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := getSettings(ctx, tx.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1 FOR UPDATE`))
	if err != nil {
		return domain.Settings{}, err
	}
	updated := patch.Apply(current)

	raw, err := json.Marshal(updated)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, raw,
	); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Settings{}, fmt.Errorf("commit settings update: %w", err)
	}
	return updated, nil
}
