package supabase

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
)

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// doRetry issues an idempotent request, retrying transient upstream
// failures with jittered exponential backoff.
func (c *Client) doRetry(ctx context.Context, method, rawURL string, payload []byte, headers http.Header) ([]byte, error) {
	var lastErr error

	backoff := initialBackoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying supabase request", "attempt", attempt, "url", rawURL)

			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.CategoryOperation, "supabase request canceled")
			case <-time.After(jitter(backoff)):
			}

			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		data, err := c.do(ctx, method, rawURL, payload, headers)
		if err == nil {
			return data, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}

	if richErr.Category != errors.CategoryOperation && richErr.Category != errors.CategoryRateLimit {
		return false
	}

	if status, ok := richErr.Metadata["status"].(int); ok {
		switch status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	// transport failures carry no status and are worth one more try
	return true
}

func jitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}
