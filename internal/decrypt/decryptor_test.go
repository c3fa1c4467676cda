package decrypt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSources_Decoder(t *testing.T) {
	var embedURL string

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ajax/v2/episode/sources", r.URL.Path)
		assert.Equal(t, "661263", r.URL.Query().Get("id"))
		w.Write([]byte(`{"type":"iframe","link":"https://megacloud.blog/embed-2/v3/e-1/AbCdEf123?k=1","server":4}`))
	}))
	defer site.Close()

	decoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		embedURL = body["embedUrl"]

		w.Write([]byte(`{
			"sources":[{"file":"https://cdn.example/master.m3u8","type":"hls"}],
			"tracks":[{"file":"https://cdn.example/en.vtt","label":"English","kind":"captions","default":true}],
			"intro":{"start":31,"end":120},
			"outro":{"start":1300,"end":1390}
		}`))
	}))
	defer decoder.Close()

	d := New(Options{
		V1BaseURL:    site.URL,
		EmbedBaseURL: "https://embed.example",
		DecoderURL:   decoder.URL,
	})

	res, err := d.Sources(context.Background(), Request{SourceID: "661263", Server: "hd-1"})
	require.NoError(t, err)

	assert.Equal(t, "https://embed.example/embed-2/v3/e-1/AbCdEf123?k=1", embedURL)
	assert.Equal(t, "661263", res.ID)
	assert.Equal(t, "sub", res.Type)
	assert.Equal(t, Link{File: "https://cdn.example/master.m3u8", Type: "hls"}, res.Link)
	require.Len(t, res.Tracks, 1)
	assert.True(t, res.Tracks[0].Default)
	require.NotNil(t, res.Intro)
	assert.Equal(t, 120.0, res.Intro.End)
	assert.Equal(t, "hd-1", res.Server)
	assert.Empty(t, res.Iframe)
}

func TestSources_DecoderMissingLink(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"iframe"}`))
	}))
	defer site.Close()

	d := New(Options{V1BaseURL: site.URL})

	_, err := d.Sources(context.Background(), Request{SourceID: "1"})
	assert.ErrorIs(t, err, ErrMissingLink)
}

func TestSources_DecoderBadLink(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"link":"https://megacloud.blog/no-query"}`))
	}))
	defer site.Close()

	d := New(Options{V1BaseURL: site.URL})

	_, err := d.Sources(context.Background(), Request{SourceID: "1"})
	assert.ErrorIs(t, err, ErrMissingSourceID)
}

func TestSources_Mirror(t *testing.T) {
	var mirror *httptest.Server
	mirror = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stream/s-2/12352/dub":
			assert.Equal(t, mirror.URL+"/", r.Header.Get("Referer"))
			w.Write([]byte(`<html><head><meta name="_gg_fb" content="k3y"></head>
				<body><div id="megaplay-player" data-id="98765"></div></body></html>`))
		case "/stream/getSources":
			assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
			assert.Equal(t, "98765", r.URL.Query().Get("id"))
			assert.Equal(t, "k3y", r.URL.Query().Get("_k"))
			w.Write([]byte(`{"sources":{"file":"https://cdn.example/fb.m3u8"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer mirror.Close()

	d := New(Options{Fallback1: mirror.URL, Fallback2: "http://127.0.0.1:1"})

	res, err := d.Sources(context.Background(), Request{EpisodeID: "12352", Server: "HD-1", Type: "dub", Fallback: true})
	require.NoError(t, err)

	assert.Empty(t, res.ID)
	assert.Equal(t, "https://cdn.example/fb.m3u8", res.Link.File)
	assert.Equal(t, mirror.URL+"/stream/s-2/12352/dub", res.Iframe)
	assert.Nil(t, res.Intro)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tracks":[]`)
}

func TestSources_MirrorWithoutPlayer(t *testing.T) {
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>removed</body></html>`))
	}))
	defer mirror.Close()

	d := New(Options{Fallback1: "http://127.0.0.1:1", Fallback2: mirror.URL})

	_, err := d.Sources(context.Background(), Request{EpisodeID: "1", Server: "hd-2", Fallback: true})
	assert.ErrorIs(t, err, ErrMissingDataID)
}

func TestMirrorFor(t *testing.T) {
	d := New(Options{Fallback1: "one", Fallback2: "two"})

	assert.Equal(t, "one", d.mirrorFor("hd-1"))
	assert.Equal(t, "one", d.mirrorFor("HD-3"))
	assert.Equal(t, "two", d.mirrorFor("hd-2"))
	assert.Equal(t, "two", d.mirrorFor(""))
}
