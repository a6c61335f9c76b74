package scraper

import (
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	// UserAgent mimics a desktop browser; the listing site rejects bot agents
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	Timeout   = 20 * time.Second
)

// Fetcher retrieves a page body
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d for url: %s", e.StatusCode, e.URL)
}

// FetcherOptions configures NewHTTPFetcher
type FetcherOptions struct {
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
}

// HTTPFetcher fetches pages with a single GET and no retries; the next
// scheduled run is the retry.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher, filling zero options with defaults
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	return &HTTPFetcher{client: client}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), URL: url}
	}

	return resp.Body(), nil
}
