package rating

import (
	"encoding/json"
	"time"

	"github.com/dangom/luxinema/internal/rating/cache"
	"github.com/dangom/luxinema/internal/schedule"
)

// Stats counts cache traffic during one run.
type Stats struct {
	Hits    int // ratings served from the cache
	Lookups int // external API calls made
}

// Resolver resolves titles to ratings through the cache-aside store.
// It is not safe for concurrent use; the tool runs single-threaded.
type Resolver struct {
	store        cache.Store
	lookup       Lookup
	ttl          time.Duration
	forceRefresh bool
	stats        Stats
}

// ResolverConfig holds configuration for a Resolver.
type ResolverConfig struct {
	Store        cache.Store
	Lookup       Lookup
	CacheTTLDays int  // 0 means cached ratings never expire
	ForceRefresh bool // bypass cache reads, re-fetch everything
}

// NewResolver creates a Resolver backed by cfg.Store and cfg.Lookup.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		store:        cfg.Store,
		lookup:       cfg.Lookup,
		ttl:          time.Duration(cfg.CacheTTLDays) * 24 * time.Hour,
		forceRefresh: cfg.ForceRefresh,
	}
}

// Resolve returns the rating for title, consulting the cache first and
// the external source at most once per unique normalized title per
// cache lifetime. Failed lookups are cached as not-found sentinels so
// the same title never triggers repeated failing calls; that trades a
// rare false-negative-forever for fewer network round trips.
func (r *Resolver) Resolve(title string) Rating {
	key := schedule.NormalizeTitle(title)

	if !r.forceRefresh {
		if data, ok := r.store.Get(key); ok {
			var cached Rating
			if err := json.Unmarshal(data, &cached); err == nil {
				r.stats.Hits++
				return cached
			}
			// Undecodable entry: fall through and overwrite it.
		}
	}

	r.stats.Lookups++
	rating := Rating{
		Key:       key,
		Title:     title,
		FetchedAt: time.Now(),
	}

	result, err := r.lookup.Search(title)
	if err == nil && result.Status == StatusFound {
		rating.Score = result.Score
		rating.Found = true
		rating.Overview = result.Overview
		rating.URL = result.URL
	}
	// NotFound and transient failures both become the sentinel.

	if data, err := json.Marshal(rating); err == nil {
		// A failed write loses persistence, not correctness.
		r.store.Set(key, data, r.ttl)
	}

	return rating
}

// Stats reports cache hits and external lookups made so far.
func (r *Resolver) Stats() Stats {
	return r.stats
}
