// Package fetcher issues rate-limited GET requests against the target site
// and parses responses into goquery documents.
package fetcher

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/brandmon/internal/logger"
)

// Default configuration values.
const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; brandmon/1.0; +https://example.com)"
	DefaultTimeout   = 30 * time.Second

	// DefaultRequestsPerSecond spaces successive requests roughly 500ms
	// apart. The target host is rate-sensitive; fetches are sequential and
	// the pause deliberately blocks the crawl loop.
	DefaultRequestsPerSecond = 2
)

// Config configures a Client.
type Config struct {
	// UserAgent is sent on every request unless overridden per call.
	UserAgent string
	// Timeout is the per-request budget. There is no overall budget here;
	// callers bound whole runs through their context.
	Timeout time.Duration
	// Limiter paces requests. Tests inject rate.NewLimiter(rate.Inf, 1) to
	// avoid sleeping between fixture pages.
	Limiter *rate.Limiter
}

// Client fetches pages sequentially with a politeness pause between requests.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     logger.Interface
}

// New creates a Client. Zero-value config fields fall back to defaults.
func New(cfg Config, log logger.Interface) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1)
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		http:    httpClient,
		limiter: cfg.Limiter,
		log:     log,
	}
}

// Fetch issues a GET for pageURL with the client's base headers merged with
// extraHeaders (extras win on conflict). Any transport failure or non-2xx
// status yields a *FetchError. On success the politeness limiter is waited on
// before the parsed document is returned.
func (c *Client) Fetch(
	ctx context.Context,
	pageURL string,
	extraHeaders map[string]string,
) (*goquery.Document, error) {
	req := c.http.R().SetContext(ctx)
	if len(extraHeaders) > 0 {
		req.SetHeaders(extraHeaders)
	}

	c.log.Debug("fetching page", "url", pageURL)

	resp, err := req.Get(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	if waitErr := c.limiter.Wait(ctx); waitErr != nil {
		return nil, waitErr
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	return doc, nil
}
