// Package decrypt resolves an episode server into a playable HLS source,
// either through the site's ajax endpoint and the external decoding service
// or through the megaplay fallback mirrors.
package decrypt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingLink     = errors.New("missing link in sources response")
	ErrMissingSourceID = errors.New("unable to extract source id from link")
	ErrMissingDataID   = errors.New("player data-id not found")
)

var sourceIDRe = regexp.MustCompile(`/([^/?]+)\?`)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"

type Options struct {
	V1BaseURL    string
	EmbedBaseURL string
	DecoderURL   string
	Fallback1    string
	Fallback2    string
	Timeout      time.Duration
}

type Decryptor struct {
	client *http.Client
	opts   Options
}

func New(opts Options) *Decryptor {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Decryptor{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Request identifies one server of one episode. EpisodeID is the numeric
// episode id used by the mirrors, SourceID the server data id used by the
// ajax endpoint.
type Request struct {
	EpisodeID string
	SourceID  string
	Server    string
	Type      string
	Fallback  bool
}

type Link struct {
	File string `json:"file"`
	Type string `json:"type"`
}

type Result struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Link   Link            `json:"link"`
	Tracks []domain.Track  `json:"tracks"`
	Intro  *domain.Segment `json:"intro"`
	Outro  *domain.Segment `json:"outro"`
	Iframe string          `json:"iframe,omitempty"`
	Server string          `json:"server"`
}

// Sources resolves req. A result with an empty Link.File means the provider
// answered but had no stream.
func (d *Decryptor) Sources(ctx context.Context, req Request) (*Result, error) {
	if req.Type == "" {
		req.Type = "sub"
	}

	var (
		payload *sourcesPayload
		iframe  string
		err     error
	)
	if req.Fallback {
		iframe, payload, err = d.fromMirror(ctx, req)
	} else {
		payload, err = d.fromDecoder(ctx, req)
	}
	if err != nil {
		logging.For("decrypt").WithFields(logrus.Fields{
			"episode":  req.EpisodeID,
			"source":   req.SourceID,
			"server":   req.Server,
			"fallback": req.Fallback,
		}).WithError(err).Warn("resolve sources")
		return nil, err
	}

	tracks := payload.Tracks
	if tracks == nil {
		tracks = []domain.Track{}
	}
	return &Result{
		ID:     req.SourceID,
		Type:   req.Type,
		Link:   Link{File: payload.file(), Type: "hls"},
		Tracks: tracks,
		Intro:  payload.Intro,
		Outro:  payload.Outro,
		Iframe: iframe,
		Server: req.Server,
	}, nil
}

// mirrorFor picks the fallback host; hd-1 and hd-3 live on the first mirror.
func (d *Decryptor) mirrorFor(server string) string {
	switch strings.ToLower(server) {
	case "hd-1", "hd-3":
		return d.opts.Fallback1
	default:
		return d.opts.Fallback2
	}
}

func (d *Decryptor) fromMirror(ctx context.Context, req Request) (string, *sourcesPayload, error) {
	mirror := d.mirrorFor(req.Server)
	iframe := fmt.Sprintf("%s/stream/s-2/%s/%s", mirror, url.PathEscape(req.EpisodeID), url.PathEscape(req.Type))

	page, err := d.get(ctx, iframe, map[string]string{"Referer": mirror + "/"})
	if err != nil {
		return "", nil, fmt.Errorf("fetch player page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", nil, fmt.Errorf("parse player page: %w", err)
	}
	dataID, ok := doc.Find("#megaplay-player").Attr("data-id")
	if !ok || dataID == "" {
		return "", nil, ErrMissingDataID
	}

	q := url.Values{}
	q.Set("id", dataID)
	if key, found := ExtractKey(string(page)); found {
		q.Set("_k", key)
	}

	body, err := d.get(ctx, mirror+"/stream/getSources?"+q.Encode(), map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          iframe,
	})
	if err != nil {
		return "", nil, fmt.Errorf("fetch mirror sources: %w", err)
	}

	var payload sourcesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil, fmt.Errorf("decode mirror sources: %w", err)
	}
	return iframe, &payload, nil
}

func (d *Decryptor) fromDecoder(ctx context.Context, req Request) (*sourcesPayload, error) {
	body, err := d.get(ctx, d.opts.V1BaseURL+"/ajax/v2/episode/sources?id="+url.QueryEscape(req.SourceID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch ajax sources: %w", err)
	}

	var ajax struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(body, &ajax); err != nil {
		return nil, fmt.Errorf("decode ajax sources: %w", err)
	}
	if ajax.Link == "" {
		return nil, ErrMissingLink
	}

	m := sourceIDRe.FindStringSubmatch(ajax.Link)
	if len(m) < 2 {
		return nil, ErrMissingSourceID
	}
	embedURL := fmt.Sprintf("%s/embed-2/v3/e-1/%s?k=1", d.opts.EmbedBaseURL, m[1])

	reqBody, err := json.Marshal(map[string]string{"embedUrl": embedURL})
	if err != nil {
		return nil, fmt.Errorf("encode decoder request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.opts.DecoderURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build decoder request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	out, err := d.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call decoder: %w", err)
	}

	var payload sourcesPayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("decode decoder response: %w", err)
	}
	return &payload, nil
}

func (d *Decryptor) get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return d.do(req)
}

func (d *Decryptor) do(req *http.Request) ([]byte, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
