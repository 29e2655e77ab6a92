package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source names double as cache keys and metric labels.
const (
	NamePrice         = "price"
	NameBlockHeight   = "block_height"
	NameBlockHeight7d = "block_height_7d_ago"
	NameBlockInterval = "avg_block_time"
	NameDifficulty    = "difficulty_adjustment"
	NameOnchainVolume = "onchain_volume"
	NameInstitutional = "institutional_holdings"
)

const (
	maxResponseBytes   = 8 << 20
	defaultHTTPTimeout = 15 * time.Second
)

// Endpoint is where a source fetches from and how long its response may be
// served from cache.
type Endpoint struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	TTL     time.Duration `json:"ttl" yaml:"ttl"`
}

// DefaultEndpoints returns the public upstreams and their cache lifetimes.
// Fast-moving readings refresh every minute, slow-moving ones daily.
func DefaultEndpoints() map[string]Endpoint {
	return map[string]Endpoint{
		NamePrice:         {BaseURL: "https://api.coingecko.com/api/v3", TTL: time.Minute},
		NameBlockHeight:   {BaseURL: "https://blockchain.info", TTL: time.Minute},
		NameBlockHeight7d: {BaseURL: "https://mempool.space/api/v1", TTL: 10 * time.Minute},
		NameBlockInterval: {BaseURL: "https://blockchain.info", TTL: 10 * time.Minute},
		NameDifficulty:    {BaseURL: "https://mempool.space/api/v1", TTL: 10 * time.Minute},
		NameOnchainVolume: {BaseURL: "https://api.blockchain.info", TTL: 6 * time.Hour},
		NameInstitutional: {BaseURL: "https://raw.githubusercontent.com/assridha/BTC-Treasury/main", TTL: 24 * time.Hour},
	}
}

// Cache is the capability the sources use to avoid hammering upstreams.
type Cache interface {
	Remember(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error)
}

// Client performs cached HTTP GETs on behalf of every source.
type Client struct {
	http  *http.Client
	cache Cache
}

// NewClient returns a Client. A nil cache fetches on every call.
func NewClient(cache Cache) *Client {
	return &Client{
		http:  &http.Client{Timeout: defaultHTTPTimeout},
		cache: cache,
	}
}

// get fetches url, serving from cache under key for ttl.
func (c *Client) get(ctx context.Context, key string, ttl time.Duration, url string, header http.Header) ([]byte, error) {
	fetch := func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, url, header)
	}
	if c.cache == nil {
		return fetch(ctx)
	}
	return c.cache.Remember(ctx, key, ttl, fetch)
}

func (c *Client) fetch(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, text/csv")
	req.Header.Set("User-Agent", "btc-dashboard/1.0")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}
	return body, nil
}
