package fetch

import (
	"time"

	"MarketArchiver/internal/provider"
)

// RetryPolicy decides whether a failed chunk request is worth repeating.
// Only transient provider errors are retried; terminal errors (unresolvable
// security, entitlement denial) give up immediately because repeating them
// burns the rate budget and delays every symbol behind them.
type RetryPolicy struct {
	// MaxRetries is the number of retries per chunk after the first attempt.
	MaxRetries int
	// Backoff is the linear backoff base: attempt n waits n*Backoff.
	Backoff time.Duration
}

// DefaultRetryPolicy matches the provider's observed recovery behavior:
// two retries with 3s then 6s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Backoff: 3 * time.Second}
}

// Decide returns the backoff delay and whether to retry, given the number
// of failures so far for this chunk (1 after the first failure) and the
// error that caused the latest one.
func (p RetryPolicy) Decide(failures int, err error) (time.Duration, bool) {
	if !provider.IsTransient(err) {
		return 0, false
	}
	if failures > p.MaxRetries {
		return 0, false
	}
	return time.Duration(failures) * p.Backoff, true
}
