package types

// Account is a snapshot of a remote user profile summary, taken when it is
// favorited. Stored accounts are replaced or removed whole, never edited.
type Account struct {
	ID         AccountID `json:"id"          yaml:"id"`
	Login      Login     `json:"login"       yaml:"login"`
	AvatarURL  string    `json:"avatar_url"  yaml:"avatar_url"`
	ProfileURL string    `json:"html_url"    yaml:"html_url"`
}
