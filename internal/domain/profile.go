package domain

type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	PIN    string `json:"pin,omitempty"`
}

// GuestProfile is the profile every fresh store starts with.
func GuestProfile() Profile {
	return Profile{
		ID:     "default-1",
		Name:   "Guest",
		Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Guest",
	}
}

// PublicProfile is what leaves the API: the PIN itself never does.
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	HasPin bool   `json:"hasPin"`
}

func (p Profile) Public() PublicProfile {
	return PublicProfile{
		ID:     p.ID,
		Name:   p.Name,
		Avatar: p.Avatar,
		HasPin: p.PIN != "",
	}
}

// ProfileInput carries a create (empty ID) or an update.
type ProfileInput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	PIN    string `json:"pin"`
}
