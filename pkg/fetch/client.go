// Package fetch retrieves legislative bill pages over HTTP with rate
// limiting and optional on-disk caching. Parliamentary sites are slow
// and unversioned, so fetched pages are kept locally and reused until
// they expire.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultUserAgent is the User-Agent header sent with requests.
const DefaultUserAgent = "navette-fetcher/1.0"

// DefaultRateLimit is the minimum interval between requests.
const DefaultRateLimit = 500 * time.Millisecond

// DefaultCacheTTL is how long cached pages remain valid.
const DefaultCacheTTL = 24 * time.Hour

// Config holds configuration for a Client.
type Config struct {
	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client

	// RateLimit is the minimum interval between requests.
	RateLimit time.Duration

	// UserAgent is the User-Agent header.
	UserAgent string

	// CacheDir enables on-disk caching of fetched pages when non-empty.
	CacheDir string

	// CacheTTL is how long cached pages remain valid.
	CacheTTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults and caching disabled.
func DefaultConfig() Config {
	return Config{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		RateLimit:  DefaultRateLimit,
		UserAgent:  DefaultUserAgent,
		CacheTTL:   DefaultCacheTTL,
	}
}

// Client fetches bill pages with rate limiting and optional caching.
type Client struct {
	config       Config
	cache        *DiskCache
	lastRequest  time.Time
	lastReqMutex sync.Mutex
}

// NewClient creates a new client with the given configuration.
// If config.CacheDir is set, a disk cache is created there.
func NewClient(config Config) (*Client, error) {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.RateLimit == 0 {
		config.RateLimit = DefaultRateLimit
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}

	client := &Client{config: config}

	if config.CacheDir != "" {
		cache, err := NewDiskCache(config.CacheDir, config.CacheTTL)
		if err != nil {
			return nil, err
		}
		client.cache = cache
	}

	return client, nil
}

// rateLimit ensures we don't exceed the rate limit.
func (c *Client) rateLimit() {
	c.lastReqMutex.Lock()
	defer c.lastReqMutex.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.config.RateLimit {
		time.Sleep(c.config.RateLimit - elapsed)
	}
	c.lastRequest = time.Now()
}

// Get fetches the page at the given URL, returning cached content when
// a valid cache entry exists. Non-200 responses are errors.
func (c *Client) Get(url string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			return body, nil
		}
	}

	c.rateLimit()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(url, body); err != nil {
			return nil, err
		}
	}

	return body, nil
}
