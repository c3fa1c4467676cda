package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	defaultProfileName = "New User"
	avatarURLFormat    = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

func publicProfiles(profiles []domain.Profile) []domain.PublicProfile {
	return lo.Map(profiles, func(p domain.Profile, _ int) domain.PublicProfile { return p.Public() })
}

func (s *Service) ListProfiles(ctx context.Context) ([]domain.PublicProfile, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return publicProfiles(profiles), nil
}

// SaveProfile creates a profile when in.ID is empty and updates it otherwise.
// Empty fields on update keep their stored value. Returns the full list.
func (s *Service) SaveProfile(ctx context.Context, in domain.ProfileInput) ([]domain.PublicProfile, error) {
	in.Name = strings.TrimSpace(in.Name)

	if in.ID == "" {
		p := domain.Profile{
			ID:     uuid.NewString(),
			Name:   lo.Ternary(in.Name == "", defaultProfileName, in.Name),
			Avatar: in.Avatar,
			PIN:    in.PIN,
		}
		if p.Avatar == "" {
			p.Avatar = fmt.Sprintf(avatarURLFormat, uuid.NewString())
		}
		if err := s.store.CreateProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		s.log.WithField("profile", p.ID).Info("profile created")
	} else {
		current, err := s.store.GetProfile(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if in.Name != "" {
			current.Name = in.Name
		}
		if in.Avatar != "" {
			current.Avatar = in.Avatar
		}
		if in.PIN != "" {
			current.PIN = in.PIN
		}
		if err := s.store.UpdateProfile(ctx, *current); err != nil {
			return nil, fmt.Errorf("update profile %s: %w", in.ID, err)
		}
	}

	return s.ListProfiles(ctx)
}

func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.store.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return nil
}

// Authenticate returns the session token for the profile, which is its id.
// Profiles without a PIN always authenticate.
func (s *Service) Authenticate(ctx context.Context, id, pin string) (string, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", err
		}
		return "", fmt.Errorf("load profile %s: %w", id, err)
	}

	if p.PIN == "" {
		return p.ID, nil
	}
	if subtle.ConstantTimeCompare([]byte(p.PIN), []byte(pin)) != 1 {
		s.log.WithField("profile", id).Warn("incorrect pin")
		return "", domain.ErrIncorrectPIN
	}
	return p.ID, nil
}
