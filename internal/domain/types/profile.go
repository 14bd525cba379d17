package types

// UserProfile is the detailed profile returned by the users endpoint.
type UserProfile struct {
	ID          AccountID `json:"id"`
	Login       Login     `json:"login"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	ProfileURL  string    `json:"html_url"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
}

// Account returns the favoritable snapshot of the profile.
func (p UserProfile) Account() Account {
	return Account{
		ID:         p.ID,
		Login:      p.Login,
		AvatarURL:  p.AvatarURL,
		ProfileURL: p.ProfileURL,
	}
}

// DisplayName prefers the full name and falls back to the login.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login.String()
}

// Repository is a public repository summary.
type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}

// Profile bundles a user profile with its most recently updated repositories.
type Profile struct {
	User  UserProfile
	Repos []Repository
}
