// Package search runs account searches and annotates each result with its
// favorite status.
//
// It also provides a Debouncer that collapses bursts of queries typed in quick
// succession so only the last one reaches the API.
package search
