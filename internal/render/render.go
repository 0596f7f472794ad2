// Package render joins showtimes with their ratings and writes the
// combined schedule.
package render

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dangom/luxinema/internal/rating"
	"github.com/dangom/luxinema/internal/schedule"
)

// Entry is one render-ready schedule line: a showtime plus the rating
// resolved for its title.
type Entry struct {
	Showtime schedule.Showtime
	Rating   rating.Rating
}

// ResolveFunc resolves a display title to its rating.
type ResolveFunc func(title string) rating.Rating

// Build produces one Entry per showtime, preserving input order. The
// resolver is called once per unique normalized title even when a title
// screens several times that day.
func Build(showtimes []schedule.Showtime, resolve ResolveFunc) []Entry {
	resolved := make(map[string]rating.Rating)
	entries := make([]Entry, 0, len(showtimes))

	for _, st := range showtimes {
		r, ok := resolved[st.Key]
		if !ok {
			r = resolve(st.Title)
			resolved[st.Key] = r
		}
		entries = append(entries, Entry{Showtime: st, Rating: r})
	}

	return entries
}

// SortByScore orders entries by rating, best first. The sort is stable
// so same-scored titles keep their schedule order. Unrated entries sink
// to the bottom.
func SortByScore(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].Rating, entries[j].Rating
		if ri.Found != rj.Found {
			return ri.Found
		}
		return ri.Score > rj.Score
	})
}

// WriteTable writes entries as aligned text, one line per showtime.
func WriteTable(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, e := range entries {
		score := "n/a"
		if e.Rating.Found {
			score = fmt.Sprintf("%.1f", e.Rating.Score)
		}
		hall := e.Showtime.Hall
		if hall == "" {
			hall = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Showtime.Start.Format("15:04"), e.Showtime.Title, hall, score)
	}

	return tw.Flush()
}
