package eventpublisher

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retrier retries transient publish failures with exponential backoff.
type Retrier struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// NewRetrier creates a new Retrier with default settings.
func NewRetrier() *Retrier {
	return &Retrier{
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
	}
}

// Retry executes an operation with exponential backoff until it succeeds or
// the elapsed-time budget runs out. A cancelled context stops the retries
// immediately.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(b, ctx))
}
