// Package remote is the network tier: the price list endpoint plus an
// in-process mirror of writes.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/record"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Config describes the remote endpoint.
type Config struct {
	BaseURL    string
	PricesPath string
	Timeout    time.Duration
	// Latency is the simulated delay applied to single-record lookups.
	Latency time.Duration
	Debug   bool
}

// StatusError is returned for a non-2xx response. Body holds the raw payload.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote status %d: %s", e.Code, e.Body)
}

type pricesResponse struct {
	Data []record.Record `json:"data"`
}

// Client fetches the price list.
type Client struct {
	http    *http.Client
	url     string
	latency time.Duration
}

// NewClient validates cfg and builds the HTTP client. With Debug set every
// request is logged through log.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(strings.TrimPrefix(cfg.PricesPath, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse prices path: %w", err)
	}

	var rt http.RoundTripper = http.DefaultTransport
	if cfg.Debug {
		rt = &loggingTransport{next: rt, log: log}
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout, Transport: rt},
		url:     base.ResolveReference(ref).String(),
		latency: cfg.Latency,
	}, nil
}

// URL is the resolved price endpoint.
func (c *Client) URL() string { return c.url }

// Prices performs one GET of the price endpoint.
func (c *Client) Prices(ctx context.Context) ([]record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var out pricesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	return out.Data, nil
}
