package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/actuallystonmai/aniweb/internal/cache"
	"github.com/actuallystonmai/aniweb/internal/decrypt"
	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/fallback"
	"github.com/actuallystonmai/aniweb/internal/upstream"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	defaultServer = "hd-1"
	alternServer  = "hd-2"
	defaultType   = "sub"
)

func mapItem(item upstream.Item, _ int) domain.AnimeItem {
	return domain.AnimeItem{
		ID:            item.ID,
		Image:         item.Poster,
		Title:         domain.Title{English: item.Title, Romaji: item.JapaneseTitle},
		Description:   item.Description,
		EpisodeNumber: episodeNumber(item),
	}
}

// episodeNumber is the first of eps, sub, dub, newest_episode that is
// neither empty nor zero. Text keeps numbers as their decimal string, so a
// numeric 0 arrives as "0".
func episodeNumber(item upstream.Item) string {
	var candidates []upstream.Text
	if item.TVInfo != nil {
		candidates = append(candidates, item.TVInfo.Eps, item.TVInfo.Sub, item.TVInfo.Dub)
	}
	candidates = append(candidates, item.NewestEpisode)

	n, _ := lo.Find(candidates, func(t upstream.Text) bool { return t != "" && t != "0" })
	return n.String()
}

func emptyHome() *domain.HomeLists {
	return &domain.HomeLists{
		Spotlights: []domain.AnimeItem{},
		Trending:   []domain.AnimeItem{},
		Popular:    []domain.AnimeItem{},
		Recent:     []domain.AnimeItem{},
	}
}

func (s *Service) Home(ctx context.Context) (*domain.HomeLists, error) {
	return cached(ctx, s, cache.BuildKey("home"), s.loadHome)
}

func (s *Service) loadHome(ctx context.Context) (*domain.HomeLists, error) {
	data, err := s.scraper.Home(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch home: %w", err)
	}
	if data.Results == nil {
		return emptyHome(), nil
	}

	return &domain.HomeLists{
		Spotlights: lo.Map(data.Results.Spotlights, mapItem),
		Trending:   lo.Map(data.Results.Trending, mapItem),
		Popular:    lo.Map(data.Results.MostPopular, mapItem),
		Recent:     lo.Map(data.Results.LatestEpisode, mapItem),
	}, nil
}

func (s *Service) Trending(ctx context.Context) ([]domain.AnimeItem, error) {
	home, err := s.Home(ctx)
	if err != nil {
		return nil, err
	}
	return home.Trending, nil
}

func (s *Service) Recent(ctx context.Context) ([]domain.AnimeItem, error) {
	home, err := s.Home(ctx)
	if err != nil {
		return nil, err
	}
	return home.Recent, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query parameter \"q\" is required: %w", domain.ErrInvalidInput)
	}

	data, err := s.scraper.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	return lo.Map(data.Results, func(item upstream.Item, _ int) domain.SearchResult {
		var release string
		if item.TVInfo != nil {
			release = item.TVInfo.ReleaseDate.String()
		}
		return domain.SearchResult{
			ID:          item.ID,
			Image:       item.Poster,
			Title:       domain.Title{English: item.Title, Romaji: item.JapaneseTitle},
			ReleaseDate: release,
		}
	}), nil
}

func (s *Service) Info(ctx context.Context, id string) (*domain.AnimeInfo, error) {
	if id == "" {
		return nil, fmt.Errorf("anime id is required: %w", domain.ErrInvalidInput)
	}
	return cached(ctx, s, cache.BuildKey("info", id), func(ctx context.Context) (*domain.AnimeInfo, error) {
		return s.loadInfo(ctx, id)
	})
}

func (s *Service) loadInfo(ctx context.Context, id string) (*domain.AnimeInfo, error) {
	var (
		info *upstream.InfoResponse
		eps  *upstream.EpisodesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.scraper.Info(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		eps, err = s.scraper.Episodes(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("anime %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch info %s: %w", id, err)
	}

	if info.Results == nil || info.Results.Data == nil {
		return nil, fmt.Errorf("anime %s: %w", id, domain.ErrNotFound)
	}
	details := info.Results.Data

	var episodes []upstream.Episode
	if eps.Results != nil {
		episodes = eps.Results.Episodes
	}

	out := &domain.AnimeInfo{
		ID:    details.ID,
		Image: details.Poster,
		Cover: details.Poster,
		Title: domain.Title{English: details.Title, Romaji: details.JapaneseTitle},
		Type:  details.ShowType,
		Episodes: lo.Map(episodes, func(ep upstream.Episode, _ int) domain.EpisodeRef {
			return domain.EpisodeRef{ID: ep.ID, Number: ep.No(), Title: ep.Title}
		}),
	}
	if fields := details.AnimeInfo; fields != nil {
		out.Description = fields.Overview
		out.Status = fields.Status
		out.ReleaseDate = fields.Aired
		if score := fields.MALScore.Int(); score > 0 {
			out.Rating = lo.ToPtr(score * 10)
		}
	}
	return out, nil
}

// Watch resolves a playable source for episodeID: the requested scraper
// server, then the alternate one, then the decryptor directly, then the
// decryptor's fallback mirrors.
func (s *Service) Watch(ctx context.Context, episodeID, server, kind string) (*domain.WatchResult, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("episode id is required: %w", domain.ErrInvalidInput)
	}
	server = strings.ToLower(lo.Ternary(server == "", defaultServer, server))
	kind = strings.ToLower(lo.Ternary(kind == "", defaultType, kind))
	alternate := lo.Ternary(server == alternServer, defaultServer, alternServer)

	res, err := fallback.First(ctx, noSources,
		fallback.Attempt[*domain.WatchResult]{Name: "scraper " + server, Fetch: s.scraperSource(episodeID, server, kind)},
		fallback.Attempt[*domain.WatchResult]{Name: "scraper " + alternate, Fetch: s.scraperSource(episodeID, alternate, kind)},
		fallback.Attempt[*domain.WatchResult]{Name: "decoder", Fetch: s.decodedSource(episodeID, server, kind)},
		fallback.Attempt[*domain.WatchResult]{Name: "mirror", Fetch: s.mirrorSource(episodeID, server, kind)},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.log.WithField("episode", episodeID).WithError(err).Info("no sources")
		return nil, fmt.Errorf("episode %s: %w", episodeID, domain.ErrNoSources)
	}
	return res, nil
}

func noSources(r *domain.WatchResult) bool {
	return r == nil || len(r.Sources) == 0 || r.Sources[0].URL == ""
}

func (s *Service) scraperSource(episodeID, server, kind string) func(context.Context) (*domain.WatchResult, error) {
	return func(ctx context.Context) (*domain.WatchResult, error) {
		data, err := s.scraper.Stream(ctx, episodeID, server, kind)
		if err != nil {
			return nil, err
		}
		link := data.Link()
		if link == nil {
			return nil, nil
		}
		return &domain.WatchResult{
			Sources: []domain.StreamSource{{Quality: "default", URL: link.URL}},
			Tracks: lo.Map(link.Tracks, func(t upstream.Track, _ int) domain.Track {
				return domain.Track{File: t.File, Label: t.Label, Kind: t.Kind, Default: t.Default}
			}),
			Intro:  toSegment(link.Intro),
			Outro:  toSegment(link.Outro),
			Server: lo.Ternary(link.Server == "", server, link.Server),
		}, nil
	}
}

func (s *Service) decodedSource(episodeID, server, kind string) func(context.Context) (*domain.WatchResult, error) {
	return func(ctx context.Context) (*domain.WatchResult, error) {
		servers, err := s.scraper.Servers(ctx, episodeID)
		if err != nil {
			return nil, fmt.Errorf("list servers: %w", err)
		}
		chosen, ok := pickServer(servers.Results, server, kind)
		if !ok {
			return nil, fmt.Errorf("no %s server for %s", kind, episodeID)
		}

		res, err := s.decryptor.Sources(ctx, decrypt.Request{
			SourceID: chosen.DataID.String(),
			Server:   server,
			Type:     chosen.Type,
		})
		if err != nil {
			return nil, err
		}
		return fromDecrypted(res), nil
	}
}

func (s *Service) mirrorSource(episodeID, server, kind string) func(context.Context) (*domain.WatchResult, error) {
	return func(ctx context.Context) (*domain.WatchResult, error) {
		_, ep := upstream.SplitEpisodeID(episodeID)
		if ep == "" {
			return nil, fmt.Errorf("episode id %q has no episode number", episodeID)
		}

		res, err := s.decryptor.Sources(ctx, decrypt.Request{
			EpisodeID: ep,
			Server:    server,
			Type:      kind,
			Fallback:  true,
		})
		if err != nil {
			return nil, err
		}
		return fromDecrypted(res), nil
	}
}

// pickServer prefers the requested name and type, then any server of the
// type, then the first one listed.
func pickServer(servers []upstream.Server, name, kind string) (upstream.Server, bool) {
	if len(servers) == 0 {
		return upstream.Server{}, false
	}
	if s, ok := lo.Find(servers, func(s upstream.Server) bool {
		return strings.EqualFold(s.ServerName, name) && strings.EqualFold(s.Type, kind)
	}); ok {
		return s, true
	}
	if s, ok := lo.Find(servers, func(s upstream.Server) bool { return strings.EqualFold(s.Type, kind) }); ok {
		return s, true
	}
	return servers[0], true
}

func fromDecrypted(res *decrypt.Result) *domain.WatchResult {
	if res == nil || res.Link.File == "" {
		return nil
	}
	return &domain.WatchResult{
		Sources: []domain.StreamSource{{Quality: "default", URL: res.Link.File}},
		Tracks:  lo.Ternary(res.Tracks == nil, []domain.Track{}, res.Tracks),
		Intro:   res.Intro,
		Outro:   res.Outro,
		Server:  res.Server,
	}
}

func toSegment(s *upstream.Segment) *domain.Segment {
	if s == nil {
		return nil
	}
	return &domain.Segment{Start: s.Start, End: s.End}
}

// Sources exposes the decryptor for a single server without any fallback.
func (s *Service) Sources(ctx context.Context, req decrypt.Request) (*decrypt.Result, error) {
	if req.SourceID == "" && req.EpisodeID == "" {
		return nil, fmt.Errorf("source or episode id is required: %w", domain.ErrInvalidInput)
	}
	if req.Fallback && req.EpisodeID == "" {
		return nil, fmt.Errorf("fallback needs an episode id: %w", domain.ErrInvalidInput)
	}
	if !req.Fallback && req.SourceID == "" {
		return nil, fmt.Errorf("source id is required: %w", domain.ErrInvalidInput)
	}
	return s.decryptor.Sources(ctx, req)
}
