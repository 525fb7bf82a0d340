// Package fetcher performs the plain HTTP GETs of a crawl: the card images
// and, in static mode, the list page itself.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "cardcrawl/pkg/errors"
	"cardcrawl/pkg/logger"
)

// Limiter paces outgoing requests
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client issues GET requests with browser-like headers
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    Limiter
	logger     logger.Logger
}

// NewClient creates a client sending userAgent on every request
func NewClient(userAgent string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
		},
		logger: log.WithField("component", "fetcher"),
	}
}

// SetLimiter makes every request wait on l first
func (c *Client) SetLimiter(l Limiter) {
	c.limiter = l
}

// Fetch GETs url and returns the body when the server answers 200.
// Any other status is a status error and no body is returned; transport
// failures are network errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Network(url, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.Status(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Network(url, fmt.Errorf("read body: %w", err))
	}

	return body, nil
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, apperrors.Network(req.URL.String(), err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}
