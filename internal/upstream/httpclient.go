package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrMaxRetriesExceeded is returned when all retry attempts have failed
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	// ErrRequestTimeout is returned when a request times out
	ErrRequestTimeout = errors.New("request timeout")
)

// RetryConfig holds retry behavior: attempt count, backoff bounds, and
// the per-request timeout.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
}

// DefaultRetryConfig returns exponential backoff with delays of 1s, 2s, 4s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   4 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// RetryableHTTPClient retries transient failures (network errors, 5xx,
// 429) with exponential backoff.
type RetryableHTTPClient struct {
	client         *http.Client
	config         RetryConfig
	delayFunc      func(time.Duration)
	defaultHeaders map[string]string
}

// NewRetryableHTTPClient returns a client with the default retry config.
func NewRetryableHTTPClient() *RetryableHTTPClient {
	return NewRetryableHTTPClientWithConfig(DefaultRetryConfig())
}

// NewRetryableHTTPClientWithConfig returns a client with a custom retry config.
func NewRetryableHTTPClientWithConfig(config RetryConfig) *RetryableHTTPClient {
	return &RetryableHTTPClient{
		client:    &http.Client{Timeout: config.Timeout},
		config:    config,
		delayFunc: time.Sleep,
	}
}

// SetHTTPClient replaces the underlying HTTP client (useful for testing).
func (c *RetryableHTTPClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// SetDelayFunc replaces the backoff sleep (useful for testing).
func (c *RetryableHTTPClient) SetDelayFunc(fn func(time.Duration)) {
	c.delayFunc = fn
}

// SetDefaultHeaders sets headers applied to every request that does not
// already carry them.
func (c *RetryableHTTPClient) SetDefaultHeaders(headers map[string]string) {
	c.defaultHeaders = headers
}

// Do executes a request, retrying transient failures.
func (c *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext executes a request, retrying transient failures until the
// context is cancelled or the attempts are exhausted.
func (c *RetryableHTTPClient) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt > 0 {
			c.delayFunc(backoff(c.config, attempt))
		}

		resp, err := c.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		return nil, ErrMaxRetriesExceeded
	}
	return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

// attempt runs one request. Retryable outcomes come back as errors.
func (c *RetryableHTTPClient) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Clone per attempt so the request stays reusable
	r := req.Clone(ctx)
	for key, value := range c.defaultHeaders {
		if r.Header.Get(key) == "" {
			r.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(r)
	if err != nil {
		if isTimeoutError(err) {
			return nil, fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return nil, err
	}

	if retryableStatus(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	return resp, nil
}

// Get performs a GET with retry logic.
func (c *RetryableHTTPClient) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetWithContext performs a GET with retry logic and context support.
func (c *RetryableHTTPClient) GetWithContext(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.DoWithContext(ctx, req)
}

// backoff returns the delay before the given attempt, doubling from
// BaseDelay and capped at MaxDelay.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := cfg.BaseDelay << (attempt - 1)
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// retryableStatus reports whether a status code warrants a retry:
// 5xx server errors and 429.
func retryableStatus(code int) bool {
	return (code >= 500 && code < 600) || code == http.StatusTooManyRequests
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
