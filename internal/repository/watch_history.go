package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/jackc/pgx/v5"
)

const historyColumns = `anime_id, episode_id, timestamp_sec, duration_sec, anime_title, image, episode_number, updated_at`

func scanHistory(row pgx.Row, e *domain.HistoryEntry) error {
	return row.Scan(&e.AnimeID, &e.EpisodeID, &e.Timestamp, &e.Duration,
		&e.AnimeTitle, &e.Image, &e.EpisodeNumber, &e.UpdatedAt)
}

func (r *Repository) ProfileHistory(ctx context.Context, profileID string) ([]domain.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+historyColumns+`
		FROM watch_history
		WHERE profile_id = $1
		ORDER BY updated_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("get watch history for profile %s: %w", profileID, err)
	}
	defer rows.Close()

	items := []domain.HistoryEntry{}
	for rows.Next() {
		var item domain.HistoryEntry
		if err := scanHistory(rows, &item); err != nil {
			return nil, fmt.Errorf("scan watch history item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over watch history items: %w", err)
	}
	return items, nil
}

// UpsertHistory merges u into the stored row, locking it for the duration of
// the transaction.
func (r *Repository) UpsertHistory(ctx context.Context, u domain.HistoryUpdate, now time.Time) (domain.HistoryEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("begin history upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	var current domain.HistoryEntry
	err = scanHistory(tx.QueryRow(ctx,
		`SELECT `+historyColumns+`
		FROM watch_history
		WHERE profile_id = $1 AND anime_id = $2
		FOR UPDATE`,
		u.ProfileID, u.AnimeID,
	), &current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.HistoryEntry{}, fmt.Errorf("load history %s/%s: %w", u.ProfileID, u.AnimeID, err)
	}

	entry := u.Apply(current, now.UnixMilli())

	_, err = tx.Exec(ctx,
		`INSERT INTO watch_history (profile_id, `+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id, anime_id) DO UPDATE SET
			episode_id = EXCLUDED.episode_id,
			timestamp_sec = EXCLUDED.timestamp_sec,
			duration_sec = EXCLUDED.duration_sec,
			anime_title = EXCLUDED.anime_title,
			image = EXCLUDED.image,
			episode_number = EXCLUDED.episode_number,
			updated_at = EXCLUDED.updated_at`,
		u.ProfileID, entry.AnimeID, entry.EpisodeID, entry.Timestamp, entry.Duration,
		entry.AnimeTitle, entry.Image, entry.EpisodeNumber, entry.UpdatedAt,
	)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("upsert history %s/%s: %w", u.ProfileID, u.AnimeID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("commit history upsert: %w", err)
	}
	return entry, nil
}
