package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dangom/luxinema/internal/rating"
	"github.com/dangom/luxinema/internal/render"
	"github.com/dangom/luxinema/internal/schedule"
)

// DayResults holds the outcome of one schedule run.
type DayResults struct {
	Showtimes int
	Skipped   int
	Stats     rating.Stats
	Duration  time.Duration
}

// runOptions control output shape for one run.
type runOptions struct {
	SortByRating bool
	ICalPath     string
}

// runDay drives the pipeline for one day: fetch the raw schedule, parse
// it (skipping malformed entries), resolve ratings and write the
// combined schedule to out. Only a failed fetch is fatal.
func runDay(
	fetcher *schedule.Fetcher,
	resolver *rating.Resolver,
	day time.Time,
	opts runOptions,
	out io.Writer,
) (*DayResults, error) {
	startTime := time.Now()

	raws, err := fetcher.FetchDay(day)
	if err != nil {
		return nil, err
	}
	slog.Debug("schedule fetched", "date", day.Format("2006-01-02"), "raw_entries", len(raws))

	showtimes, skipped := schedule.ParseAll(raws, day)
	if skipped > 0 {
		slog.Warn("skipped malformed schedule entries", "count", skipped)
	}

	entries := render.Build(showtimes, resolver.Resolve)
	if opts.SortByRating {
		render.SortByScore(entries)
	}

	if err := render.WriteTable(out, entries); err != nil {
		return nil, fmt.Errorf("failed to write schedule: %w", err)
	}

	if opts.ICalPath != "" {
		if err := writeICSFile(opts.ICalPath, entries); err != nil {
			// Calendar export is a bonus; the schedule already printed.
			slog.Warn("failed to write calendar file", "path", opts.ICalPath, "error", err)
		} else {
			slog.Info("calendar written", "path", opts.ICalPath, "events", len(entries))
		}
	}

	return &DayResults{
		Showtimes: len(showtimes),
		Skipped:   skipped,
		Stats:     resolver.Stats(),
		Duration:  time.Since(startTime),
	}, nil
}

func writeICSFile(path string, entries []render.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.WriteICS(f, entries)
}
