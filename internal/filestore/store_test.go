package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s, err := Open(fsys, "data")
	require.NoError(t, err)
	return s, fsys
}

func ptr[T any](v T) *T { return &v }

func TestOpen_WritesDefaults(t *testing.T) {
	s, fsys := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"profiles.json", "history.json", "config.json"} {
		exists, err := afero.Exists(fsys, "data/"+name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Profile{domain.GuestProfile()}, profiles)

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestOpen_KeepsExistingFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/profiles.json", []byte(`[{"id":"a","name":"Ann","avatar":"x"}]`), 0o644))

	s, err := Open(fsys, "data")
	require.NoError(t, err)

	profiles, err := s.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Ann", profiles[0].Name)
}

func TestProfiles_CRUD(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	p := domain.Profile{ID: "p1", Name: "Mika", Avatar: "a.svg", PIN: "1234"}
	require.NoError(t, s.CreateProfile(ctx, p))
	assert.ErrorIs(t, s.CreateProfile(ctx, p), domain.ErrInvalidInput)

	got, err := s.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	p.Name = "Mika2"
	require.NoError(t, s.UpdateProfile(ctx, p))
	got, err = s.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mika2", got.Name)

	assert.ErrorIs(t, s.UpdateProfile(ctx, domain.Profile{ID: "ghost"}), domain.ErrProfileNotFound)

	require.NoError(t, s.DeleteProfile(ctx, "p1"))
	_, err = s.GetProfile(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	require.NoError(t, s.DeleteProfile(ctx, "p1"))
}

func TestHistory_UpsertMergesAndSorts(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	t0 := time.UnixMilli(1_700_000_000_000)

	first, err := s.UpsertHistory(ctx, domain.HistoryUpdate{
		ProfileID:     "default-1",
		AnimeID:       "naruto-677",
		EpisodeID:     ptr("naruto-677?ep=1"),
		Timestamp:     ptr(42.5),
		AnimeTitle:    ptr("Naruto"),
		EpisodeNumber: ptr(1.0),
	}, t0)
	require.NoError(t, err)
	assert.Equal(t, t0.UnixMilli(), first.UpdatedAt)

	_, err = s.UpsertHistory(ctx, domain.HistoryUpdate{
		ProfileID: "default-1",
		AnimeID:   "bleach-806",
		Timestamp: ptr(10.0),
	}, t0.Add(time.Second))
	require.NoError(t, err)

	updated, err := s.UpsertHistory(ctx, domain.HistoryUpdate{
		ProfileID: "default-1",
		AnimeID:   "naruto-677",
		Timestamp: ptr(90.0),
		Duration:  ptr(1420.0),
	}, t0.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "Naruto", updated.AnimeTitle)
	assert.Equal(t, "naruto-677?ep=1", updated.EpisodeID)
	assert.Equal(t, 90.0, updated.Timestamp)
	assert.Equal(t, 1420.0, updated.Duration)

	entries, err := s.ProfileHistory(ctx, "default-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "naruto-677", entries[0].AnimeID)
	assert.Equal(t, "bleach-806", entries[1].AnimeID)
}

func TestHistory_UnknownProfileIsEmpty(t *testing.T) {
	s, _ := newStore(t)

	entries, err := s.ProfileHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDeleteProfile_DropsHistory(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.UpsertHistory(ctx, domain.HistoryUpdate{ProfileID: "default-1", AnimeID: "a"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.DeleteProfile(ctx, "default-1"))

	entries, err := s.ProfileHistory(ctx, "default-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSettings_MergeOverDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/config.json", []byte(`{"defaultQuality":"1080p"}`), 0o644))

	s, err := Open(fsys, "data")
	require.NoError(t, err)
	ctx := context.Background()

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1080p", settings.DefaultQuality)
	assert.Equal(t, "gogoanime", settings.Provider)
	assert.True(t, settings.AutoPlayNextEpisode)

	updated, err := s.UpdateSettings(ctx, domain.SettingsPatch{AutoSkipIntro: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.AutoSkipIntro)
	assert.Equal(t, "1080p", updated.DefaultQuality)

	again, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, again)
}

func TestSettings_CorruptFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/config.json", []byte(`{not json`), 0o644))

	s, err := Open(fsys, "data")
	require.NoError(t, err)

	settings, err := s.GetSettings(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}
