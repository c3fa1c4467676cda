package seeds

import (
	"context"
	"testing"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/filestore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.Open(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	require.NoError(t, store.DeleteProfile(ctx, "default-1"))

	require.NoError(t, Setup(ctx, store))

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Profile{domain.GuestProfile()}, profiles)
}

func TestSetup_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.Open(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	require.NoError(t, Setup(ctx, store))
	require.NoError(t, Setup(ctx, store))

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}
