package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func (r *Repository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, avatar, pin FROM profiles ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Avatar, &p.PIN); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

func (r *Repository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, avatar, pin FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Avatar, &p.PIN)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile id=%s: %w", id, err)
	}
	return p, nil
}

func (r *Repository) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (id, name, avatar, pin) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Avatar, p.PIN,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("profile %s already exists: %w", p.ID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert profile id=%s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, p domain.Profile) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles SET name = $2, avatar = $3, pin = $4 WHERE id = $1`,
		p.ID, p.Name, p.Avatar, p.PIN,
	)
	if err != nil {
		return fmt.Errorf("update profile id=%s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// DeleteProfile removes the profile and its history. History rows are not
// tied to profiles by a foreign key, so syncs for unknown profiles are kept
// like the file store keeps them.
func (r *Repository) DeleteProfile(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin profile delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM watch_history WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("delete history profile id=%s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profile id=%s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit profile delete: %w", err)
	}
	return nil
}
