package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text decodes a JSON string or number; the scraper is not consistent about
// which one it sends for counts and ids.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if bytes.Equal(b, []byte("false")) || bytes.Equal(b, []byte("true")) {
		*t = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Int parses the leading integer part, or 0.
func (t Text) Int() int {
	s := strings.TrimSpace(string(t))
	if i := strings.IndexFunc(s, func(r rune) bool { return r != '-' && (r < '0' || r > '9') }); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(s)
	return n
}

type TVInfo struct {
	ShowType    Text `json:"showType"`
	ReleaseDate Text `json:"releaseDate"`
	Eps         Text `json:"eps"`
	Sub         Text `json:"sub"`
	Dub         Text `json:"dub"`
}

type Item struct {
	ID            string  `json:"id"`
	Poster        string  `json:"poster"`
	Title         string  `json:"title"`
	JapaneseTitle string  `json:"japanese_title"`
	Description   string  `json:"description"`
	TVInfo        *TVInfo `json:"tvInfo"`
	NewestEpisode Text    `json:"newest_episode"`
}

type HomeResults struct {
	Spotlights    []Item `json:"spotlights"`
	Trending      []Item `json:"trending"`
	MostPopular   []Item `json:"mostPopular"`
	LatestEpisode []Item `json:"latestEpisode"`
}

type HomeResponse struct {
	Results *HomeResults `json:"results"`
}

type SearchResponse struct {
	Results []Item `json:"results"`
}

type AnimeInfoFields struct {
	Overview string `json:"Overview"`
	Status   string `json:"Status"`
	Aired    string `json:"Aired"`
	MALScore Text   `json:"MAL Score"`
}

type InfoData struct {
	ID            string           `json:"id"`
	Poster        string           `json:"poster"`
	Title         string           `json:"title"`
	JapaneseTitle string           `json:"japanese_title"`
	ShowType      string           `json:"showType"`
	AnimeInfo     *AnimeInfoFields `json:"animeInfo"`
}

type InfoResponse struct {
	Results *struct {
		Data *InfoData `json:"data"`
	} `json:"results"`
}

type Episode struct {
	ID        string `json:"id"`
	EpisodeNo Text   `json:"episode_no"`
	Number    Text   `json:"number"`
	Title     string `json:"title"`
}

// No returns the episode number under either field name.
func (e Episode) No() int {
	if n := e.EpisodeNo.Int(); n != 0 {
		return n
	}
	return e.Number.Int()
}

type EpisodesResponse struct {
	Results *struct {
		Episodes []Episode `json:"episodes"`
	} `json:"results"`
}

type Server struct {
	Type       string `json:"type"`
	DataID     Text   `json:"data_id"`
	ServerID   Text   `json:"server_id"`
	ServerName string `json:"serverName"`
}

type ServersResponse struct {
	Results []Server `json:"results"`
}

type Track struct {
	File    string `json:"file"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Default bool   `json:"default"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// StreamingLink is a bare URL string, a source object, or a list of source
// objects of which the first is used.
type StreamingLink struct {
	URL    string
	Tracks []Track
	Intro  *Segment
	Outro  *Segment
	Server string
}

func (l *StreamingLink) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &l.URL)
	}
	if b[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		return l.UnmarshalJSON(list[0])
	}

	var obj struct {
		Link *struct {
			File string `json:"file"`
		} `json:"link"`
		Tracks []Track  `json:"tracks"`
		Intro  *Segment `json:"intro"`
		Outro  *Segment `json:"outro"`
		Server string   `json:"server"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Link != nil {
		l.URL = obj.Link.File
	}
	l.Tracks = obj.Tracks
	l.Intro = obj.Intro
	l.Outro = obj.Outro
	l.Server = obj.Server
	return nil
}

type StreamResponse struct {
	Results *struct {
		StreamingLink *StreamingLink `json:"streamingLink"`
	} `json:"results"`
}

// Link returns the stream link or nil when the scraper found none.
func (r *StreamResponse) Link() *StreamingLink {
	if r == nil || r.Results == nil || r.Results.StreamingLink == nil || r.Results.StreamingLink.URL == "" {
		return nil
	}
	return r.Results.StreamingLink
}
