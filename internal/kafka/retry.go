package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// backoff describes how often and how patiently an operation is retried.
type backoff struct {
	retries int
	initial time.Duration
	max     time.Duration
}

var (
	metadataBackoff = backoff{retries: 3, initial: 500 * time.Millisecond, max: 4 * time.Second}
	fetchBackoff    = backoff{retries: 3, initial: 100 * time.Millisecond, max: 400 * time.Millisecond}
)

// isAuthError returns true for errors that indicate SASL authentication or
// authorization failures. Retrying will not help.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}

	var ke *kerr.Error
	if errors.As(err, &ke) {
		switch ke {
		case kerr.SaslAuthenticationFailed,
			kerr.UnsupportedSaslMechanism,
			kerr.IllegalSaslState,
			kerr.TopicAuthorizationFailed,
			kerr.ClusterAuthorizationFailed,
			kerr.GroupAuthorizationFailed:
			return true
		}
	}

	var eof *kgo.ErrFirstReadEOF
	return errors.As(err, &eof)
}

// isRetryable returns true for transient broker errors where a retry might
// succeed: timeouts, broker restarts, temporary leader unavailability.
func isRetryable(err error) bool {
	if err == nil || isAuthError(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ke *kerr.Error
	if errors.As(err, &ke) {
		return ke.Retriable
	}

	if errors.Is(err, net.ErrClosed) {
		return true
	}

	var ne *net.OpError
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// withRetry runs a metadata call with the default policy.
func withRetry(ctx context.Context, desc string, fn func() error) error {
	return retry(ctx, metadataBackoff, desc, fn)
}

// retry executes fn up to policy.retries+1 times with exponential backoff.
// Auth errors fail immediately. Context cancellation stops retries.
func retry(ctx context.Context, policy backoff, desc string, fn func() error) error {
	wait := policy.initial

	var lastErr error
	for attempt := 0; attempt <= policy.retries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == policy.retries {
			break
		}

		slog.Warn("retrying after transient error",
			"operation", desc,
			"attempt", attempt+1,
			"max_attempts", policy.retries+1,
			"backoff", wait,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w (last error: %w)", desc, ctx.Err(), lastErr)
		case <-time.After(wait):
		}

		wait *= 2
		if wait > policy.max {
			wait = policy.max
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", desc, policy.retries+1, lastErr)
}
