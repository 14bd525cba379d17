package types

// AccountID is the numeric identifier the hosting platform assigns to an account.
type AccountID int64

// Login is the display handle of an account.
type Login string

// String returns the string form of the login.
func (l Login) String() string { return string(l) }
