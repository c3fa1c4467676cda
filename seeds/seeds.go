package seeds

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/logging"
)

// Store is the part of the persistence layer seeding needs.
type Store interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	CreateProfile(ctx context.Context, p domain.Profile) error
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

// Setup writes the Guest profile when the store has no profiles and persists
// the current settings so the settings document exists. Running it twice is
// harmless.
func Setup(ctx context.Context, store Store) error {
	log := logging.For("seed")

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("check profiles: %w", err)
	}
	if len(profiles) > 0 {
		log.WithField("profiles", len(profiles)).Info("profiles already present, skipping")
	} else {
		log.Info("inserting guest profile")
		if err := store.CreateProfile(ctx, domain.GuestProfile()); err != nil {
			return fmt.Errorf("seed guest profile: %w", err)
		}
	}

	log.Info("writing settings")
	if _, err := store.UpdateSettings(ctx, domain.SettingsPatch{}); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	log.Info("seeding complete")
	return nil
}
