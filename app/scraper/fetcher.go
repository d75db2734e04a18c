package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "telelinker/1.0"
	DefaultRetryBackoff = 500 * time.Millisecond

	defaultMaxBodySize = 10 * 1024 * 1024
)

var ErrResponseTooLarge = errors.New("response body too large")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.Code, e.Status)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Fetcher performs rate limited GET requests with retries on transient failures.
type Fetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	userAgent    string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	maxBodySize  int64
}

func NewFetcher(opts Options) *Fetcher {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}

	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, 1),
		userAgent:    userAgent,
		timeout:      timeout,
		maxRetries:   max(opts.MaxRetries, 0),
		retryBackoff: backoff,
		maxBodySize:  defaultMaxBodySize,
	}
}

// Get fetches rawURL and returns the response body.
func (f *Fetcher) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	var data []byte

	backoff := retry.WithMaxRetries(uint64(f.maxRetries), retry.NewExponential(f.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}

		body, err := f.do(ctx, rawURL, headers)
		if err != nil {
			if ctx.Err() != nil || !retryable(err) {
				return err
			}
			return retry.RetryableError(err)
		}

		data = body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// retryable reports whether err is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrResponseTooLarge) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}
	return true
}

func (f *Fetcher) do(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, f.maxBodySize)
	}

	return data, nil
}
