package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/domain"
)

// Settings never fails: an unreadable store yields the defaults.
func (s *Service) Settings(ctx context.Context) domain.Settings {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.log.WithError(err).Error("read settings, returning defaults")
		return domain.DefaultSettings()
	}
	return settings
}

func (s *Service) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	settings, err := s.store.UpdateSettings(ctx, patch)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}
