// Package pokeapi provides the HTTP client for the public PokeAPI.
//
// The API is unauthenticated but rate limited, so all requests go through a
// token bucket limiter. Transient failures (network errors, 429, 5xx) are
// retried with exponential backoff; 4xx responses are not.
package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const initialBackoff = 500 * time.Millisecond

// Client is a rate-limited PokeAPI client shared by all extractor workers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	logger     *slog.Logger
}

// New creates a PokeAPI client with rate limiting and bounded retries.
func New(baseURL string, timeout time.Duration, requestsPerSecond float64, maxRetries int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// HTTPError is a non-2xx response. Retryability depends on the status code.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("pokeapi %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

func retryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	// Network-level failures are worth another attempt.
	return true
}

// ListPage fetches one page of the pokemon listing.
func (c *Client) ListPage(ctx context.Context, limit, offset int) (*ListResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var page ListResponse
	if err := c.getJSON(ctx, c.baseURL+"/pokemon?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Detail fetches the full detail payload from a listing item's URL.
func (c *Client) Detail(ctx context.Context, detailURL string) (*RawPokemon, error) {
	var raw RawPokemon
	if err := c.getJSON(ctx, detailURL, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// getJSON performs a rate-limited GET with retries and decodes the body.
func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	var lastErr error
	backoff := initialBackoff
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, u)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response from %s: %w", u, err)
			}
			return nil
		}

		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			return err
		}
		if attempt < c.maxRetries {
			c.logger.Debug("retrying request", "url", u, "attempt", attempt, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: u, Body: truncate(body, 200)}
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
