package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v string, err error, calls *[]string, name string) Attempt[string] {
	return Attempt[string]{
		Name: name,
		Fetch: func(context.Context) (string, error) {
			*calls = append(*calls, name)
			return v, err
		},
	}
}

func isEmpty(s string) bool { return s == "" }

func TestFirst_ReturnsFirstUsable(t *testing.T) {
	var calls []string

	got, err := First(context.Background(), isEmpty,
		fixed("", assert.AnError, &calls, "hd-1"),
		fixed("", nil, &calls, "hd-2"),
		fixed("https://cdn/master.m3u8", nil, &calls, "direct"),
		fixed("never", nil, &calls, "megaplay"),
	)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/master.m3u8", got)
	assert.Equal(t, []string{"hd-1", "hd-2", "direct"}, calls)
}

func TestFirst_AllFail(t *testing.T) {
	var calls []string

	_, err := First(context.Background(), isEmpty,
		fixed("", assert.AnError, &calls, "hd-1"),
		fixed("", nil, &calls, "hd-2"),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Contains(t, err.Error(), "hd-1")
	assert.Contains(t, err.Error(), "hd-2")
}

func TestFirst_NoAttempts(t *testing.T) {
	_, err := First[string](context.Background(), isEmpty)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestFirst_NilEmptyAcceptsAnySuccess(t *testing.T) {
	var calls []string

	got, err := First(context.Background(), nil,
		fixed("", nil, &calls, "only"),
	)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestFirst_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string

	first := Attempt[string]{
		Name: "hd-1",
		Fetch: func(context.Context) (string, error) {
			calls = append(calls, "hd-1")
			cancel()
			return "", errors.New("boom")
		},
	}

	_, err := First(ctx, isEmpty, first, fixed("late", nil, &calls, "hd-2"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"hd-1"}, calls)
}
