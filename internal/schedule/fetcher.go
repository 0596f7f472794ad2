package schedule

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dangom/luxinema/internal/retry"
)

const userAgent = "Luxinema/1.0"

// ErrNoSchedule is returned when the page parses but carries no
// screenings for the requested date.
var ErrNoSchedule = errors.New("no screenings listed for date")

// Fetcher scrapes the cinema's schedule page for a given day.
type Fetcher struct {
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	initialBackoff time.Duration
}

// FetcherConfig holds configuration for the schedule fetcher.
type FetcherConfig struct {
	BaseURL          string
	TimeoutSecs      int
	MaxAttempts      int
	InitialBackoffMs int
}

// NewFetcher creates a schedule fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 30
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoffMs <= 0 {
		cfg.InitialBackoffMs = 1000
	}
	return &Fetcher{
		baseURL:        cfg.BaseURL,
		httpClient:     &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
	}
}

// FetchDay retrieves the raw screening entries for day, in page order.
//
// The site returns the full programme on every request and only hides
// the other dates with CSS, so the filter query parameter alone cannot
// be trusted: each list item is double-checked against its data-date
// attribute.
func (f *Fetcher) FetchDay(day time.Time) ([]RawEntry, error) {
	dateKey := day.Format("20060102")

	pageURL := fmt.Sprintf("%s?filter=%s", f.baseURL, url.QueryEscape(dateKey))
	body, err := f.get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule page: %w", err)
	}

	var entries []RawEntry
	selector := fmt.Sprintf(`ul.items li[data-date="%s"]`, dateKey)
	doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
		content := item.Find("div.content-wrap")
		title := strings.TrimSpace(content.Find("h3").First().Text())

		content.Find("div.times span").Each(func(_ int, span *goquery.Selection) {
			hall, _ := span.Attr("title")
			entries = append(entries, RawEntry{
				Title: title,
				Time:  strings.TrimSpace(span.Text()),
				Hall:  strings.TrimSpace(hall),
			})
		})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSchedule, day.Format("2006-01-02"))
	}

	return entries, nil
}

// get performs an HTTP GET with retries on transient failures.
func (f *Fetcher) get(pageURL string) (io.ReadCloser, error) {
	var resp *http.Response
	var lastErr error

	err := retry.Do(func() error {
		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			lastErr = err
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, lastErr = f.httpClient.Do(req)
		if lastErr != nil {
			return lastErr
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("schedule page error (status %d): %s", resp.StatusCode, string(body))
			return lastErr
		}
		return nil
	}, f.maxAttempts, f.initialBackoff)

	if err != nil {
		return nil, lastErr
	}
	return resp.Body, nil
}
