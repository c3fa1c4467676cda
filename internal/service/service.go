package service

import (
	"context"
	"time"

	"github.com/actuallystonmai/aniweb/internal/cache"
	"github.com/actuallystonmai/aniweb/internal/decrypt"
	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/actuallystonmai/aniweb/internal/upstream"
	"github.com/sirupsen/logrus"
)

// Store persists profiles, watch history and settings. Implemented by
// filestore.Store and repository.Repository.
type Store interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, p domain.Profile) error
	UpdateProfile(ctx context.Context, p domain.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	ProfileHistory(ctx context.Context, profileID string) ([]domain.HistoryEntry, error)
	UpsertHistory(ctx context.Context, u domain.HistoryUpdate, now time.Time) (domain.HistoryEntry, error)

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

// Scraper is the subset of the upstream client the service calls.
type Scraper interface {
	Home(ctx context.Context) (*upstream.HomeResponse, error)
	Search(ctx context.Context, keyword string) (*upstream.SearchResponse, error)
	Info(ctx context.Context, id string) (*upstream.InfoResponse, error)
	Episodes(ctx context.Context, id string) (*upstream.EpisodesResponse, error)
	Servers(ctx context.Context, episodeID string) (*upstream.ServersResponse, error)
	Stream(ctx context.Context, episodeID, server, kind string) (*upstream.StreamResponse, error)
}

type SourceResolver interface {
	Sources(ctx context.Context, req decrypt.Request) (*decrypt.Result, error)
}

type Service struct {
	store     Store
	scraper   Scraper
	decryptor SourceResolver
	cache     *cache.Cache
	now       func() time.Time
	log       *logrus.Entry
}

func NewService(store Store, scraper Scraper, decryptor SourceResolver, cache *cache.Cache) *Service {
	return &Service{
		store:     store,
		scraper:   scraper,
		decryptor: decryptor,
		cache:     cache,
		now:       time.Now,
		log:       logging.For("service"),
	}
}

// cached serves key from the cache or fills it with load. Cache failures are
// logged and never fail the request.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (*T, error)) (*T, error) {
	var hit T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.log.WithField("key", key).WithError(err).Warn("cache get")
	}
	if found {
		return &hit, nil
	}

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.WithField("key", key).WithError(err).Warn("cache set")
	}
	return v, nil
}
