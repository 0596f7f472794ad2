package rating

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangom/luxinema/internal/rating/cache"
)

// fakeLookup is a scripted Lookup that counts external calls.
type fakeLookup struct {
	calls   int
	results map[string]LookupResult
	err     error
}

func (f *fakeLookup) Search(title string) (LookupResult, error) {
	f.calls++
	if f.err != nil {
		return LookupResult{Status: StatusTransientError}, f.err
	}
	if r, ok := f.results[title]; ok {
		return r, nil
	}
	return LookupResult{Status: StatusNotFound}, nil
}

func found(score float64) LookupResult {
	return LookupResult{Status: StatusFound, Score: score}
}

func newTestResolver(store cache.Store, lookup Lookup) *Resolver {
	return NewResolver(ResolverConfig{Store: store, Lookup: lookup})
}

func TestResolveNormalizedTitlesShareOneLookup(t *testing.T) {
	lookup := &fakeLookup{results: map[string]LookupResult{"Inception": found(8.8)}}
	r := newTestResolver(cache.NewMemoryStore(), lookup)

	first := r.Resolve("Inception")
	second := r.Resolve("  INCEPTION ")

	assert.Equal(t, 1, lookup.calls, "titles differing only in case/whitespace must share one lookup")
	assert.Equal(t, 8.8, first.Score)
	assert.True(t, first.Found)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, "inception", second.Key)
}

func TestResolvePrePopulatedCacheSkipsLookup(t *testing.T) {
	store := cache.NewMemoryStore()
	cached := Rating{Key: "inception", Title: "Inception", Score: 8.8, Found: true, FetchedAt: time.Now()}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, store.Set("inception", data, 0))

	lookup := &fakeLookup{}
	r := newTestResolver(store, lookup)

	got := r.Resolve("  Inception ")

	assert.Equal(t, 0, lookup.calls, "cache hit must not invoke the external lookup")
	assert.Equal(t, 8.8, got.Score)
	assert.Equal(t, Stats{Hits: 1, Lookups: 0}, r.Stats())
}

func TestResolveNotFoundIsCached(t *testing.T) {
	lookup := &fakeLookup{}
	r := newTestResolver(cache.NewMemoryStore(), lookup)

	first := r.Resolve("Unknown Movie XYZ")
	second := r.Resolve("Unknown Movie XYZ")

	assert.False(t, first.Found, "miss must carry the not-found sentinel")
	assert.False(t, second.Found)
	assert.Equal(t, 1, lookup.calls, "a cached miss must not re-trigger the lookup")
}

func TestResolveTransientErrorCachedAsNotFound(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}
	r := newTestResolver(cache.NewMemoryStore(), lookup)

	first := r.Resolve("Dune")
	second := r.Resolve("Dune")

	assert.False(t, first.Found)
	assert.False(t, second.Found)
	assert.Equal(t, 1, lookup.calls)
}

func TestResolveForceRefreshBypassesCacheReads(t *testing.T) {
	store := cache.NewMemoryStore()
	cached := Rating{Key: "dune", Title: "Dune", Score: 1.0, Found: true}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, store.Set("dune", data, 0))

	lookup := &fakeLookup{results: map[string]LookupResult{"Dune": found(8.6)}}
	r := NewResolver(ResolverConfig{Store: store, Lookup: lookup, ForceRefresh: true})

	got := r.Resolve("Dune")

	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, 8.6, got.Score, "force refresh must replace the stale cached score")
}

func TestResolveRoundTripAcrossStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.db")

	store, err := cache.NewSQLiteStore(path)
	require.NoError(t, err)

	lookup := &fakeLookup{results: map[string]LookupResult{"Arrival": found(7.9)}}
	first := newTestResolver(store, lookup).Resolve("Arrival")
	require.NoError(t, store.Close())

	// Fresh store on the same file, as a new process would see it.
	reopened, err := cache.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	silent := &fakeLookup{}
	second := newTestResolver(reopened, silent).Resolve("Arrival")

	assert.Equal(t, 0, silent.calls, "persisted rating must satisfy the lookup")
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Score, second.Score)
	assert.True(t, first.FetchedAt.Equal(second.FetchedAt), "fetched_at must survive the round trip")
}
