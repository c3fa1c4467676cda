package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, 0)
}

func TestHome_DecodesMixedTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		w.Write([]byte(`{"success":true,"results":{
			"spotlights":[{"id":"one-piece-100","poster":"p.jpg","title":"One Piece","japanese_title":"ワンピース","tvInfo":{"sub":1100,"dub":"1050"}}],
			"latestEpisode":[{"id":"x","newest_episode":12}]
		}}`))
	})

	home, err := c.Home(context.Background())
	require.NoError(t, err)
	require.NotNil(t, home.Results)
	require.Len(t, home.Results.Spotlights, 1)

	item := home.Results.Spotlights[0]
	assert.Equal(t, "one-piece-100", item.ID)
	assert.Equal(t, Text("1100"), item.TVInfo.Sub)
	assert.Equal(t, Text("1050"), item.TVInfo.Dub)
	assert.Equal(t, Text("12"), home.Results.LatestEpisode[0].NewestEpisode)
}

func TestSearch_EscapesKeyword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "one piece & co", r.URL.Query().Get("keyword"))
		w.Write([]byte(`{"results":[]}`))
	})

	res, err := c.Search(context.Background(), "one piece & co")
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestGetJSON_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Info(context.Background(), "naruto-677")
	require.Error(t, err)
	assert.True(t, IsStatusError(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
}

func TestServers_SplitsEpisodeID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/servers/naruto-677", r.URL.Path)
		assert.Equal(t, "12352", r.URL.Query().Get("ep"))
		w.Write([]byte(`{"results":[{"type":"sub","data_id":661263,"server_id":4,"serverName":"HD-1"}]}`))
	})

	res, err := c.Servers(context.Background(), "naruto-677?ep=12352")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, Text("661263"), res.Results[0].DataID)
}

func TestStreamingLink_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"results":{"streamingLink":"https://cdn/a.m3u8"}}`, "https://cdn/a.m3u8"},
		{"object", `{"results":{"streamingLink":{"link":{"file":"https://cdn/b.m3u8","type":"hls"},"server":"hd-1"}}}`, "https://cdn/b.m3u8"},
		{"list", `{"results":{"streamingLink":[{"link":{"file":"https://cdn/c.m3u8"}}]}}`, "https://cdn/c.m3u8"},
		{"null", `{"results":{"streamingLink":null}}`, ""},
		{"empty list", `{"results":{"streamingLink":[]}}`, ""},
		{"missing results", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp StreamResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			link := resp.Link()
			if tt.want == "" {
				assert.Nil(t, link)
				return
			}
			require.NotNil(t, link)
			assert.Equal(t, tt.want, link.URL)
		})
	}
}

func TestText_Int(t *testing.T) {
	assert.Equal(t, 8, Text("8.52").Int())
	assert.Equal(t, 0, Text("N/A").Int())
	assert.Equal(t, 24, Text("24").Int())
	assert.Equal(t, 0, Text("").Int())
}

func TestSplitEpisodeID(t *testing.T) {
	slug, ep := SplitEpisodeID("one-piece-100?ep=2142")
	assert.Equal(t, "one-piece-100", slug)
	assert.Equal(t, "2142", ep)

	slug, ep = SplitEpisodeID("plain-id")
	assert.Equal(t, "plain-id", slug)
	assert.Empty(t, ep)
}

func TestLimiterRespectsContext(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, 0.001)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Home(ctx)
	require.Error(t, err)
}
