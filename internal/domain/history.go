package domain

// HistoryEntry is the playback position of one profile in one anime.
// UpdatedAt is unix milliseconds.
type HistoryEntry struct {
	AnimeID       string  `json:"animeId"`
	EpisodeID     string  `json:"episodeId"`
	Timestamp     float64 `json:"timestamp"`
	Duration      float64 `json:"duration"`
	AnimeTitle    string  `json:"animeTitle"`
	Image         string  `json:"image"`
	EpisodeNumber float64 `json:"episodeNumber"`
	UpdatedAt     int64   `json:"updatedAt"`
}

// HistoryUpdate is a progress sync; nil fields keep the stored value.
type HistoryUpdate struct {
	ProfileID     string   `json:"profileId"`
	AnimeID       string   `json:"animeId"`
	EpisodeID     *string  `json:"episodeId"`
	Timestamp     *float64 `json:"timestamp"`
	Duration      *float64 `json:"duration"`
	AnimeTitle    *string  `json:"animeTitle"`
	Image         *string  `json:"image"`
	EpisodeNumber *float64 `json:"episodeNumber"`
}

// Apply merges u over e and stamps UpdatedAt.
func (u HistoryUpdate) Apply(e HistoryEntry, nowMillis int64) HistoryEntry {
	e.AnimeID = u.AnimeID
	if u.EpisodeID != nil {
		e.EpisodeID = *u.EpisodeID
	}
	if u.Timestamp != nil {
		e.Timestamp = *u.Timestamp
	}
	if u.Duration != nil {
		e.Duration = *u.Duration
	}
	if u.AnimeTitle != nil {
		e.AnimeTitle = *u.AnimeTitle
	}
	if u.Image != nil {
		e.Image = *u.Image
	}
	if u.EpisodeNumber != nil {
		e.EpisodeNumber = *u.EpisodeNumber
	}
	e.UpdatedAt = nowMillis
	return e
}
