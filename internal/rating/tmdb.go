package rating

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dangom/luxinema/internal/retry"
)

const (
	tmdbAPIBaseURL   = "https://api.themoviedb.org/3"
	tmdbMovieBaseURL = "https://www.themoviedb.org/movie"
)

// Client is a TMDB API client that implements Lookup.
type Client struct {
	apiKey         string
	language       string
	baseURL        string
	httpClient     *http.Client
	rateDelay      time.Duration
	maxAttempts    int
	initialBackoff time.Duration
}

// ClientConfig holds configuration for the TMDB client.
type ClientConfig struct {
	APIKey           string
	Language         string
	BaseURL          string // overridable for tests
	RateLimitDelayMs int
	MaxAttempts      int
	InitialBackoffMs int
}

// NewClient creates a TMDB API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = tmdbAPIBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoffMs <= 0 {
		cfg.InitialBackoffMs = 1000
	}
	return &Client{
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		baseURL:        cfg.BaseURL,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		rateDelay:      time.Duration(cfg.RateLimitDelayMs) * time.Millisecond,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
	}
}

// tmdbSearchResponse is the subset of the TMDB search payload we read.
type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Search looks title up via the TMDB search API and reports the first
// match's score. An answered-but-empty result set is NotFound; network
// failures and server errors that survive the retries are
// TransientError.
func (c *Client) Search(title string) (LookupResult, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	params.Set("language", c.language)
	params.Set("page", "1")

	searchURL := fmt.Sprintf("%s/search/movie?%s", c.baseURL, params.Encode())
	resp, err := c.doRequestWithRetry(searchURL)
	if err != nil {
		return LookupResult{Status: StatusTransientError}, fmt.Errorf("failed to search movie: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return LookupResult{Status: StatusTransientError},
			fmt.Errorf("TMDB API error (status %d): %s", resp.StatusCode, string(body))
	}

	var searchResp tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return LookupResult{Status: StatusTransientError}, fmt.Errorf("failed to decode search response: %w", err)
	}

	// Rate limiting
	time.Sleep(c.rateDelay)

	if len(searchResp.Results) == 0 {
		return LookupResult{Status: StatusNotFound}, nil
	}

	first := searchResp.Results[0]
	return LookupResult{
		Status:   StatusFound,
		Score:    first.VoteAverage,
		Overview: first.Overview,
		URL:      fmt.Sprintf("%s/%d", tmdbMovieBaseURL, first.ID),
	}, nil
}

// doRequestWithRetry executes an HTTP GET request with retry logic.
func (c *Client) doRequestWithRetry(requestURL string) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	err := retry.Do(func() error {
		var reqErr error
		resp, reqErr = c.httpClient.Get(requestURL)
		if reqErr != nil {
			lastErr = reqErr
			return reqErr
		}

		// 5xx and 429 are worth retrying; everything else passes through
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("TMDB API error (status %d): %s", resp.StatusCode, string(body))
			return lastErr
		}
		return nil
	}, c.maxAttempts, c.initialBackoff)

	if err != nil {
		return nil, lastErr
	}
	return resp, nil
}
