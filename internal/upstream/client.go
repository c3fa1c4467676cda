// Package upstream talks to the scraper microservice that aggregates the
// anime providers. It only decodes; reshaping for the frontend lives in the
// service layer.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client for baseURL. rps <= 0 disables rate limiting.
func NewClient(baseURL string, timeout time.Duration, rps float64) *Client {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = max(1, int(rps))
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// StatusError is a non-2xx answer from the scraper.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: status %d", e.Path, e.Code)
}

func IsStatusError(err error) bool {
	var target *StatusError
	return errors.As(err, &target)
}

func (c *Client) Home(ctx context.Context) (*HomeResponse, error) {
	var out HomeResponse
	if err := c.getJSON(ctx, "/api/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, keyword string) (*SearchResponse, error) {
	var out SearchResponse
	path := "/api/search?keyword=" + url.QueryEscape(keyword)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Info(ctx context.Context, id string) (*InfoResponse, error) {
	var out InfoResponse
	if err := c.getJSON(ctx, "/api/info?id="+url.QueryEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Episodes(ctx context.Context, id string) (*EpisodesResponse, error) {
	var out EpisodesResponse
	if err := c.getJSON(ctx, "/api/episodes/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Servers lists the embed servers of an episode id such as "slug?ep=123".
func (c *Client) Servers(ctx context.Context, episodeID string) (*ServersResponse, error) {
	slug, ep := SplitEpisodeID(episodeID)
	path := "/api/servers/" + url.PathEscape(slug)
	if ep != "" {
		path += "?ep=" + url.QueryEscape(ep)
	}

	var out ServersResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stream(ctx context.Context, episodeID, server, kind string) (*StreamResponse, error) {
	q := url.Values{}
	q.Set("id", episodeID)
	q.Set("server", server)
	if kind != "" {
		q.Set("type", kind)
	}

	var out StreamResponse
	if err := c.getJSON(ctx, "/api/stream?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SplitEpisodeID splits "slug?ep=123" into its slug and numeric episode id.
// Plain ids come back unchanged with an empty episode part.
func SplitEpisodeID(id string) (slug, ep string) {
	slug, query, found := strings.Cut(id, "?")
	if !found {
		return id, ""
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return slug, ""
	}
	return slug, values.Get("ep")
}
