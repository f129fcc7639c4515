package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Somewhere successful GET bodies can be kept for a while.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte, ttl time.Duration) error
}

// Decides how long the response for a url may be served from cache. Zero disables caching for it.
type TTLFunc func(u *url.URL) time.Duration

// Sends requests for the API clients. GET responses are shared between concurrent identical
// calls and, when a cache is configured, kept for the duration given by the TTL func.
type Client struct {
	http  *http.Client
	cache Cache
	ttl   TTLFunc
	group singleflight.Group

	limiters map[string]*rate.Limiter // Keyed by host.
}

type Option func(*Client)

func WithCache(cache Cache, ttl TTLFunc) Option {
	return func(c *Client) {
		c.cache = cache
		c.ttl = ttl
	}
}

// Replaces the underlying http client, mostly so tests can point at an httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Spaces out requests to host so no more than rpm are sent per minute. Callers wait for their turn
// until their context is done.
func WithRateLimit(host string, rpm int) Option {
	return func(c *Client) {
		if rpm <= 0 {
			return
		}
		if c.limiters == nil {
			c.limiters = make(map[string]*rate.Limiter)
		}

		c.limiters[host] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
}

func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Per-host TTLs with a fallback, e.g. a week for Ninja Kiwi's open data and minutes for everything else.
func HostTTL(fallback time.Duration, hosts map[string]time.Duration) TTLFunc {
	return func(u *url.URL) time.Duration {
		if ttl, ok := hosts[u.Hostname()]; ok {
			return ttl
		}

		return fallback
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if limiter, ok := c.limiters[req.URL.Hostname()]; ok {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("waiting to send %s request to %s: %w", req.Method, req.URL, err)
		}
	}

	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error during %s request to %s:\n  %w", req.Method, req.URL, err)
	}
	defer res.Body.Close()

	log.WithFields(log.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": res.StatusCode,
		"took":   time.Since(start),
	}).Debug("api request")

	body, err := ReadResponseBody(res)
	if err != nil {
		return body, fmt.Errorf("error during %s request to %s:\n  %w", req.Method, req.URL, err)
	}

	return body, nil
}

// Sends a request with a body. Nothing is cached or shared.
func (c *Client) Send(ctx context.Context, method, u string, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	return c.do(req)
}
