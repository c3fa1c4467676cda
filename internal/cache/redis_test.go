package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "aniweb:info:naruto-677", BuildKey("info", "naruto-677"))
	assert.Equal(t, "aniweb:home", BuildKey("home"))
}

func TestDisabledCacheIsAMiss(t *testing.T) {
	c, err := Connect(context.Background(), "", time.Minute)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, BuildKey("home"), map[string]int{"a": 1}))

	var out map[string]int
	found, err := c.Get(ctx, BuildKey("home"), &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	assert.NoError(t, c.Clear(ctx, BuildKey("home")))
	assert.NoError(t, c.Close())
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	assert.False(t, c.Enabled())
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url", time.Minute)
	assert.Error(t, err)
}

func TestNewCacheDefaultsTTL(t *testing.T) {
	c := NewCache(nil, 0)
	assert.Equal(t, defaultTTL, c.ttl)
}
