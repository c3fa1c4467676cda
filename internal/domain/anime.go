package domain

type Title struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
}

// AnimeItem is a card on the home dashboard.
type AnimeItem struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	Title         Title  `json:"title"`
	Description   string `json:"description"`
	EpisodeNumber string `json:"episodeNumber"`
}

type HomeLists struct {
	Spotlights []AnimeItem `json:"spotlights"`
	Trending   []AnimeItem `json:"trending"`
	Popular    []AnimeItem `json:"popular"`
	Recent     []AnimeItem `json:"recent"`
}

type SearchResult struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Title       Title  `json:"title"`
	ReleaseDate string `json:"releaseDate"`
}

type EpisodeRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type AnimeInfo struct {
	ID          string       `json:"id"`
	Image       string       `json:"image"`
	Cover       string       `json:"cover"`
	Title       Title        `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Type        string       `json:"type"`
	Rating      *int         `json:"rating"`
	ReleaseDate string       `json:"releaseDate"`
	Episodes    []EpisodeRef `json:"episodes"`
}
