package upstream

import (
	"net/http"
	"time"
)

// Config holds the fixed per-target settings for outbound calls.
type Config struct {
	SearchHost   string // e.g. https://api.search.brave.com
	SearchAPIKey string // may be empty; the request is still issued
	GitHubHost   string // e.g. https://api.github.com
	UserAgent    string
	CommitLimit  int           // commits per analysis, default 5
	Timeout      time.Duration // 0 disables the client timeout
}

// Client issues outbound HTTP requests to the three proxied upstreams.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an upstream client. A zero timeout is passed through
// to the underlying http.Client unchanged, so a hanging upstream blocks
// that request until the peer gives up.
func NewClient(cfg Config) *Client {
	if cfg.CommitLimit <= 0 {
		cfg.CommitLimit = 5
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}
