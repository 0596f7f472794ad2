package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dangom/luxinema/internal/config"
	"github.com/dangom/luxinema/internal/rating"
	"github.com/dangom/luxinema/internal/rating/cache"
	"github.com/dangom/luxinema/internal/schedule"
)

var (
	configPath   = flag.String("config", "~/.config/luxinema/config.yaml", "Path to configuration file")
	dateArg      = flag.String("date", "", "Schedule date as YYYY-MM-DD (default today)")
	tomorrow     = flag.Bool("tomorrow", false, "Show tomorrow's schedule")
	sortByRating = flag.Bool("sort-by-rating", false, "Order output by rating instead of showtime")
	icalPath     = flag.String("ical", "", "Also write the schedule as an iCalendar file")
	forceRefresh = flag.Bool("force-refresh", false, "Re-fetch all ratings even when cached")
	clearCache   = flag.Bool("clear-cache", false, "Empty the rating cache and exit")
	verbose      = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	day, err := resolveDay(*dateArg, *tomorrow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// An unreadable cache store degrades to in-memory: lookups are still
	// deduplicated within this run, nothing persists.
	var store cache.Store
	store, err = cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		slog.Warn("rating cache unavailable, continuing without persistence",
			"path", cfg.Cache.Path, "error", err)
		store = cache.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close rating cache", "error", err)
		}
	}()

	if *clearCache {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing rating cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Rating cache cleared")
		return
	}

	tmdbClient := rating.NewClient(rating.ClientConfig{
		APIKey:           cfg.TMDB.APIKey,
		Language:         cfg.TMDB.Language,
		RateLimitDelayMs: cfg.Options.RateLimitDelay,
		MaxAttempts:      cfg.Options.MaxAttempts,
		InitialBackoffMs: cfg.Options.InitialBackoffMs,
	})

	resolver := rating.NewResolver(rating.ResolverConfig{
		Store:        store,
		Lookup:       tmdbClient,
		CacheTTLDays: cfg.Cache.TTLDays,
		ForceRefresh: *forceRefresh,
	})

	fetcher := schedule.NewFetcher(schedule.FetcherConfig{
		BaseURL:          cfg.Cinema.BaseURL,
		TimeoutSecs:      cfg.Cinema.TimeoutSecs,
		MaxAttempts:      cfg.Options.MaxAttempts,
		InitialBackoffMs: cfg.Options.InitialBackoffMs,
	})

	opts := runOptions{SortByRating: *sortByRating, ICalPath: *icalPath}
	results, err := runDay(fetcher, resolver, day, opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching schedule: %v\n", err)
		os.Exit(1)
	}

	slog.Debug("run complete",
		"showtimes", results.Showtimes,
		"skipped", results.Skipped,
		"cache_hits", results.Stats.Hits,
		"lookups", results.Stats.Lookups,
		"duration_sec", results.Duration.Seconds(),
	)
}

// resolveDay turns the date flags into a calendar day in the local
// zone. "Today" is the local date at invocation time.
func resolveDay(dateArg string, tomorrow bool) (time.Time, error) {
	if dateArg != "" {
		day, err := time.ParseInLocation("2006-01-02", dateArg, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateArg)
		}
		return day, nil
	}
	day := time.Now()
	if tomorrow {
		day = day.AddDate(0, 0, 1)
	}
	return day, nil
}
