// Package rating resolves movie titles to ratings, with a persistent
// lookup cache so each title costs at most one API call per cache
// lifetime.
package rating

import "time"

// Rating is the resolved score for a movie title. Found is false when
// the external source had no match; such misses are cached exactly like
// hits so a title never triggers repeated failing lookups.
type Rating struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Score     float64   `json:"score"`
	Found     bool      `json:"found"`
	Overview  string    `json:"overview,omitempty"`
	URL       string    `json:"url,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LookupStatus classifies the outcome of an external rating lookup.
type LookupStatus int

const (
	// StatusFound means the source returned a match with a score.
	StatusFound LookupStatus = iota
	// StatusNotFound means the source answered but had no match.
	StatusNotFound
	// StatusTransientError means the source could not be reached or
	// answered with a server error after retries.
	StatusTransientError
)

// LookupResult is the outcome of one external lookup.
type LookupResult struct {
	Status   LookupStatus
	Score    float64
	Overview string
	URL      string
}

// Lookup is the external rating source consulted on cache misses.
type Lookup interface {
	Search(title string) (LookupResult, error)
}
