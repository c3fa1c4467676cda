package domain

type Settings struct {
	Provider            string `json:"provider"`
	DefaultQuality      string `json:"defaultQuality"`
	PreferredSub        string `json:"preferredSub"`
	AutoPlayNextEpisode bool   `json:"autoPlayNextEpisode"`
	AutoSkipIntro       bool   `json:"autoSkipIntro"`
}

func DefaultSettings() Settings {
	return Settings{
		Provider:            "gogoanime",
		DefaultQuality:      "auto",
		PreferredSub:        "english",
		AutoPlayNextEpisode: true,
		AutoSkipIntro:       false,
	}
}

// SettingsPatch holds the fields a client sent; absent ones stay untouched.
type SettingsPatch struct {
	Provider            *string `json:"provider"`
	DefaultQuality      *string `json:"defaultQuality"`
	PreferredSub        *string `json:"preferredSub"`
	AutoPlayNextEpisode *bool   `json:"autoPlayNextEpisode"`
	AutoSkipIntro       *bool   `json:"autoSkipIntro"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Provider != nil {
		s.Provider = *p.Provider
	}
	if p.DefaultQuality != nil {
		s.DefaultQuality = *p.DefaultQuality
	}
	if p.PreferredSub != nil {
		s.PreferredSub = *p.PreferredSub
	}
	if p.AutoPlayNextEpisode != nil {
		s.AutoPlayNextEpisode = *p.AutoPlayNextEpisode
	}
	if p.AutoSkipIntro != nil {
		s.AutoSkipIntro = *p.AutoSkipIntro
	}
	return s
}
