// Package profile loads account profiles for display and favorites them by
// login.
package profile
