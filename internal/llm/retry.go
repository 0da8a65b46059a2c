package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pavelanni/eduimpact/internal/metrics"
)

// DefaultAttempts is the number of calls made before giving up. It is also
// the upper bound: a request never costs more than three calls.
const DefaultAttempts = 3

// Retrier calls a Completer up to a fixed number of times, sequentially and
// without delay between attempts. A nil Completer means the service is not
// configured.
type Retrier struct {
	client   Completer
	attempts int
	logger   *slog.Logger
}

// NewRetrier wraps client. attempts outside [1, DefaultAttempts] is clamped.
func NewRetrier(client Completer, attempts int, logger *slog.Logger) *Retrier {
	if attempts < 1 || attempts > DefaultAttempts {
		attempts = DefaultAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{client: client, attempts: attempts, logger: logger}
}

// Configured reports whether a client is available.
func (r *Retrier) Configured() bool {
	return r.client != nil
}

// Attempts returns the retry bound.
func (r *Retrier) Attempts() int {
	return r.attempts
}

// Complete returns the first successful response. It returns ErrNotConfigured
// without calling anything when no client is set, and an error wrapping both
// ErrUnavailable and the last failure once all attempts are spent.
func (r *Retrier) Complete(ctx context.Context, req Request) (string, error) {
	if r.client == nil {
		return "", ErrNotConfigured
	}

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		r.logger.Info("attempting completion",
			"purpose", req.Purpose,
			"attempt", attempt,
			"max_attempts", r.attempts,
		)
		text, err := r.client.Complete(ctx, req)
		if err == nil {
			metrics.LLMAttempts.WithLabelValues(req.Purpose, "success").Inc()
			return text, nil
		}

		metrics.LLMAttempts.WithLabelValues(req.Purpose, "error").Inc()
		r.logger.Warn("completion attempt failed",
			"purpose", req.Purpose,
			"attempt", attempt,
			"max_attempts", r.attempts,
			"error", err,
		)
		lastErr = err
	}

	r.logger.Error("completion failed", "purpose", req.Purpose, "error", lastErr)
	return "", fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}
