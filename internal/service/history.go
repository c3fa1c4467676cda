package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/domain"
)

func (s *Service) History(ctx context.Context, profileID string) ([]domain.HistoryEntry, error) {
	entries, err := s.store.ProfileHistory(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", profileID, err)
	}
	return entries, nil
}

// SyncHistory upserts the playback position sent by the player.
func (s *Service) SyncHistory(ctx context.Context, u domain.HistoryUpdate) (domain.HistoryEntry, error) {
	if u.ProfileID == "" || u.AnimeID == "" {
		return domain.HistoryEntry{}, fmt.Errorf("missing profileId or animeId: %w", domain.ErrInvalidInput)
	}

	entry, err := s.store.UpsertHistory(ctx, u, s.now())
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("sync history %s/%s: %w", u.ProfileID, u.AnimeID, err)
	}
	return entry, nil
}
