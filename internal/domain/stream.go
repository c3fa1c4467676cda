package domain

type StreamSource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type Track struct {
	File    string `json:"file"`
	Label   string `json:"label,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// Segment marks an intro or outro range in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type WatchResult struct {
	Sources []StreamSource `json:"sources"`
	Tracks  []Track        `json:"tracks"`
	Intro   *Segment       `json:"intro"`
	Outro   *Segment       `json:"outro"`
	Server  string         `json:"server"`
}
