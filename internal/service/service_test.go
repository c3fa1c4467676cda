package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/actuallystonmai/aniweb/internal/cache"
	"github.com/actuallystonmai/aniweb/internal/decrypt"
	"github.com/actuallystonmai/aniweb/internal/filestore"
	"github.com/actuallystonmai/aniweb/internal/upstream"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var assertErr = errors.New("upstream down")

// fakeScraper serves canned JSON bodies decoded through the real upstream
// types, so the decoding rules are exercised too.
type fakeScraper struct {
	mu      sync.Mutex
	home    string
	search  string
	info    string
	eps     string
	servers string
	streams map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeScraper) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func decode[T any](body string) (*T, error) {
	var out T
	if body == "" {
		return &out, nil
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *fakeScraper) Home(context.Context) (*upstream.HomeResponse, error) {
	if err := f.record("home"); err != nil {
		return nil, err
	}
	return decode[upstream.HomeResponse](f.home)
}

func (f *fakeScraper) Search(_ context.Context, _ string) (*upstream.SearchResponse, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}
	return decode[upstream.SearchResponse](f.search)
}

func (f *fakeScraper) Info(context.Context, string) (*upstream.InfoResponse, error) {
	if err := f.record("info"); err != nil {
		return nil, err
	}
	return decode[upstream.InfoResponse](f.info)
}

func (f *fakeScraper) Episodes(context.Context, string) (*upstream.EpisodesResponse, error) {
	if err := f.record("episodes"); err != nil {
		return nil, err
	}
	return decode[upstream.EpisodesResponse](f.eps)
}

func (f *fakeScraper) Servers(context.Context, string) (*upstream.ServersResponse, error) {
	if err := f.record("servers"); err != nil {
		return nil, err
	}
	return decode[upstream.ServersResponse](f.servers)
}

func (f *fakeScraper) Stream(_ context.Context, _ string, server, _ string) (*upstream.StreamResponse, error) {
	if err := f.record("stream " + server); err != nil {
		return nil, err
	}
	return decode[upstream.StreamResponse](f.streams[server])
}

type fakeResolver struct {
	requests []decrypt.Request
	results  map[bool]*decrypt.Result
	errs     map[bool]error
}

func (f *fakeResolver) Sources(_ context.Context, req decrypt.Request) (*decrypt.Result, error) {
	f.requests = append(f.requests, req)
	if err := f.errs[req.Fallback]; err != nil {
		return nil, err
	}
	return f.results[req.Fallback], nil
}

func newTestService(t *testing.T, scraper Scraper, resolver SourceResolver) *Service {
	t.Helper()
	store, err := filestore.Open(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	svc := NewService(store, scraper, resolver, cache.NewCache(nil, time.Minute))
	svc.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return svc
}

func ptr[T any](v T) *T { return &v }
