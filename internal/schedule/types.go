// Package schedule fetches and parses the cinema's daily programme.
package schedule

import (
	"strings"
	"time"
)

// RawEntry is one scraped screening slot, exactly as it appears on the
// schedule page: a title, a clock time and an optional hall label.
type RawEntry struct {
	Title string
	Time  string
	Hall  string
}

// Showtime is one scheduled screening. Immutable once parsed.
type Showtime struct {
	Title string    // display casing, whitespace trimmed
	Key   string    // normalized title used for rating lookups
	Start time.Time // date and clock time combined, local zone
	Hall  string
}

// NormalizeTitle canonicalizes a movie title for cache lookups: inner
// whitespace runs collapse to single spaces, surrounding whitespace is
// trimmed and the result is lowercased. Idempotent.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
