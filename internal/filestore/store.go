// Package filestore keeps profiles, watch history and settings as JSON
// documents in a data directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const (
	profilesFile = "profiles.json"
	historyFile  = "history.json"
	settingsFile = "config.json"
)

// history.json: profile id -> anime id -> entry.
type historyDoc map[string]map[string]domain.HistoryEntry

type Store struct {
	mu  sync.Mutex
	fs  afero.Afero
	dir string
}

// Open prepares dir on fsys, creating any missing document with its default
// content.
func Open(fsys afero.Fs, dir string) (*Store, error) {
	s := &Store{fs: afero.Afero{Fs: fsys}, dir: dir}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	initial := map[string]any{
		profilesFile: []domain.Profile{domain.GuestProfile()},
		historyFile:  historyDoc{},
		settingsFile: domain.DefaultSettings(),
	}
	for name, doc := range initial {
		exists, err := s.fs.Exists(s.path(name))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := s.write(name, doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// read decodes name into dst. A missing or empty file leaves dst untouched.
func (s *Store) read(name string, dst any) error {
	data, err := s.fs.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// write replaces name through a temp file so readers never see half a
// document.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := s.fs.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) profiles() ([]domain.Profile, error) {
	var out []domain.Profile
	if err := s.read(profilesFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles()
}

func (s *Store) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.profiles()
	if err != nil {
		return nil, err
	}
	p, ok := lo.Find(profiles, func(p domain.Profile) bool { return p.ID == id })
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (s *Store) CreateProfile(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	if lo.ContainsBy(profiles, func(existing domain.Profile) bool { return existing.ID == p.ID }) {
		return fmt.Errorf("profile %s already exists: %w", p.ID, domain.ErrInvalidInput)
	}
	return s.write(profilesFile, append(profiles, p))
}

func (s *Store) UpdateProfile(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	_, idx, ok := lo.FindIndexOf(profiles, func(existing domain.Profile) bool { return existing.ID == p.ID })
	if !ok {
		return domain.ErrProfileNotFound
	}
	profiles[idx] = p
	return s.write(profilesFile, profiles)
}

// DeleteProfile drops the profile and its history. Unknown ids are a no-op.
func (s *Store) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	kept := lo.Reject(profiles, func(p domain.Profile, _ int) bool { return p.ID == id })
	if len(kept) != len(profiles) {
		if err := s.write(profilesFile, kept); err != nil {
			return err
		}
	}

	history := historyDoc{}
	if err := s.read(historyFile, &history); err != nil {
		return err
	}
	if _, ok := history[id]; !ok {
		return nil
	}
	delete(history, id)
	return s.write(historyFile, history)
}

// ProfileHistory returns the profile's entries, most recently updated first.
func (s *Store) ProfileHistory(_ context.Context, profileID string) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := historyDoc{}
	if err := s.read(historyFile, &history); err != nil {
		return nil, err
	}

	entries := lo.Values(history[profileID])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt > entries[j].UpdatedAt
	})
	return entries, nil
}

func (s *Store) UpsertHistory(_ context.Context, u domain.HistoryUpdate, now time.Time) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := historyDoc{}
	if err := s.read(historyFile, &history); err != nil {
		return domain.HistoryEntry{}, err
	}
	if history[u.ProfileID] == nil {
		history[u.ProfileID] = map[string]domain.HistoryEntry{}
	}

	entry := u.Apply(history[u.ProfileID][u.AnimeID], now.UnixMilli())
	history[u.ProfileID][u.AnimeID] = entry

	if err := s.write(historyFile, history); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// GetSettings reads the stored settings over the defaults, so fields missing
// from the file keep their default value.
func (s *Store) GetSettings(_ context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings()
}

func (s *Store) settings() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if err := s.read(settingsFile, &settings); err != nil {
		return domain.DefaultSettings(), err
	}
	return settings, nil
}

func (s *Store) UpdateSettings(_ context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.settings()
	if err != nil {
		return domain.Settings{}, err
	}
	updated := patch.Apply(current)
	if err := s.write(settingsFile, updated); err != nil {
		return domain.Settings{}, err
	}
	return updated, nil
}

func (s *Store) Close() error { return nil }
