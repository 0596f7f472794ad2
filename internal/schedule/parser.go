package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError describes a raw entry that could not be turned into a
// Showtime. The orchestrator skips these entries and keeps going.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid schedule entry: bad %s %q", e.Field, e.Value)
}

// Parse converts one raw entry into a Showtime on day. Titles keep
// their display casing but lose extraneous whitespace; the normalized
// form is stored alongside as the cache key.
func Parse(raw RawEntry, day time.Time) (Showtime, error) {
	title := strings.Join(strings.Fields(raw.Title), " ")
	if title == "" {
		return Showtime{}, &ParseError{Field: "title", Value: raw.Title}
	}

	hour, minute, err := parseClock(raw.Time)
	if err != nil {
		return Showtime{}, &ParseError{Field: "time", Value: raw.Time}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())

	return Showtime{
		Title: title,
		Key:   NormalizeTitle(title),
		Start: start,
		Hall:  strings.TrimSpace(raw.Hall),
	}, nil
}

// ParseAll parses every raw entry for day, skipping malformed ones.
// Returns the showtimes in input order and the number skipped.
func ParseAll(raws []RawEntry, day time.Time) ([]Showtime, int) {
	showtimes := make([]Showtime, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		st, err := Parse(raw, day)
		if err != nil {
			skipped++
			continue
		}
		showtimes = append(showtimes, st)
	}
	return showtimes, skipped
}

// parseClock reads a 24h clock string. The site uses both "19:30" and
// "19.30" depending on the template.
func parseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "."
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed hour %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed minute %q", parts[1])
	}
	return hour, minute, nil
}
