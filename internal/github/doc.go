// Package github provides an HTTP implementation of the domain.ProfileProvider
// interface against the GitHub REST API.
//
// Supported operations include:
//   - Searching users by free-text query.
//   - Fetching a user's public profile.
//   - Fetching a user's most recently updated repositories.
//   - Fetching a profile and its repositories concurrently.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError carrying the HTTP
// method, full URL, status text and the API's error message; 404 responses
// also match ErrNotFound.
package github
