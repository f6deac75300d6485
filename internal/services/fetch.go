// Package services implements the upstream API clients and the streaming
// reconciliation engine.
package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	apperrors "github.com/amaumene/goanimefr/internal/errors"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/pkg/logger"
	"github.com/amaumene/goanimefr/pkg/ratelimiter"
)

// Fetcher wraps an HTTP client with token-bucket pacing and bounded
// exponential backoff. HTTP 429 and transport errors are retried with a
// delay of baseDelay * 2^attempt; other 4xx/5xx responses propagate
// immediately.
type Fetcher struct {
	client     *http.Client
	limiter    ratelimiter.RateLimiter
	logger     logger.Logger
	maxRetries uint
	baseDelay  time.Duration
	onRetry    func(attempt uint, err error)
}

// NewFetcher creates a Fetcher. maxRetries is the number of retries after
// the initial attempt; baseDelay is the backoff unit (use 0 in tests).
func NewFetcher(client *http.Client, limiter ratelimiter.RateLimiter, log logger.Logger, maxRetries uint, baseDelay time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{
		client:     client,
		limiter:    limiter,
		logger:     log,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// SetRetryNotify registers a callback invoked before each backoff wait,
// letting callers surface a transient rate-limit status.
func (f *Fetcher) SetRetryNotify(fn func(attempt uint, err error)) {
	f.onRetry = fn
}

// Get fetches url and returns the response body.
func (f *Fetcher) Get(url string) ([]byte, error) {
	return f.do(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
}

// PostJSON posts body to url with a JSON content type and returns the
// response body.
func (f *Fetcher) PostJSON(url string, body []byte) ([]byte, error) {
	return f.do(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
}

func (f *Fetcher) backoff(attempt uint, _ error, _ *retry.Config) time.Duration {
	return f.baseDelay * (1 << attempt)
}

// do executes the request with retries. The request is rebuilt for every
// attempt so bodies can be re-read.
func (f *Fetcher) do(build func() (*http.Request, error)) ([]byte, error) {
	var result []byte

	err := retry.Do(
		func() error {
			if f.limiter != nil {
				f.limiter.Wait()
			}

			req, err := build()
			if err != nil {
				return retry.Unrecoverable(apperrors.NewUpstreamError("failed to build request", err))
			}

			resp, err := f.client.Do(req)
			if err != nil {
				return apperrors.NewNetworkError("request failed", err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return apperrors.NewNetworkError("failed to read response", err)
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				return apperrors.NewRateLimitedError(upstreamMessage(data), nil)
			}
			if resp.StatusCode >= 400 {
				msg := upstreamMessage(data)
				if msg == "" {
					msg = resp.Status
				}
				return retry.Unrecoverable(apperrors.NewUpstreamError(msg, nil))
			}

			result = data
			return nil
		},
		retry.Attempts(f.maxRetries+1),
		retry.DelayType(f.backoff),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			f.logger.Warnf("[Fetcher] attempt %d failed, backing off: %v", attempt+1, err)
			if f.onRetry != nil {
				f.onRetry(attempt, err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// upstreamMessage extracts the human-readable message from an upstream
// error envelope, if the body carries one.
func upstreamMessage(data []byte) string {
	var apiErr models.APIError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		return ""
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return apiErr.Error
}
