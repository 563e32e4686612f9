// Package web is the shared outbound HTTP client used by scraping features.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"cogbot/infrastructure/observability"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultRate      = rate.Limit(2)
	defaultBurst     = 4
	maxResponseBytes = 25 << 20
)

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// Client wraps net/http with a user agent and per-host pacing
type Client struct {
	http      *http.Client
	userAgent string
	limit     rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit sets the per-host request rate
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limit = limit
		c.burst = burst
	}
}

// NewClient creates a client sending userAgent on every request
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: userAgent,
		limit:     defaultRate,
		burst:     defaultBurst,
		limiters:  make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one GET
type Request struct {
	URL string
	// Source labels the fetch in metrics, e.g. "coinmarketcap"
	Source string
	// UserAgent overrides the client default when set
	UserAgent string
	Query     url.Values
	Header    http.Header
}

// GetBytes performs the request and returns the body
func (c *Client) GetBytes(ctx context.Context, req Request) ([]byte, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.record(req, observability.OutcomeError)
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL, err)
	}
	c.record(req, observability.OutcomeSuccess)
	return body, nil
}

// GetJSON decodes the JSON response into v
func (c *Client) GetJSON(ctx context.Context, req Request, v any) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v); err != nil {
		c.record(req, observability.OutcomeError)
		return fmt.Errorf("failed to decode JSON from %s: %w", req.URL, err)
	}
	c.record(req, observability.OutcomeSuccess)
	return nil
}

// GetDocument parses the HTML response
func (c *Client) GetDocument(ctx context.Context, req Request) (*goquery.Document, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.record(req, observability.OutcomeError)
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", req.URL, err)
	}
	doc.Url = resp.Request.URL
	c.record(req, observability.OutcomeSuccess)
	return doc, nil
}

// FinalURL follows redirects and returns the URL that was finally served.
// Several comic sites answer /random with a redirect to the comic page.
func (c *Client) FinalURL(ctx context.Context, req Request) (string, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	c.record(req, observability.OutcomeSuccess)
	return resp.Request.URL.String(), nil
}

func (c *Client) do(ctx context.Context, req Request) (*http.Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", req.URL, err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	ua := c.userAgent
	if req.UserAgent != "" {
		ua = req.UserAgent
	}
	httpReq.Header.Set("User-Agent", ua)

	if err := c.limiterFor(httpReq.URL.Host).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", httpReq.URL.Host, err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.record(req, observability.OutcomeError)
		return nil, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		c.record(req, observability.OutcomeError)
		log.WithFields(log.Fields{
			"url":    req.URL,
			"status": resp.StatusCode,
			"source": req.Source,
		}).Debug("Outbound request returned non-success status")
		return nil, &StatusError{URL: req.URL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[host] = limiter
	}
	return limiter
}

func (c *Client) record(req Request, outcome string) {
	source := req.Source
	if source == "" {
		source = "unknown"
	}
	observability.GetMetrics().RecordFetch(source, outcome)
}
