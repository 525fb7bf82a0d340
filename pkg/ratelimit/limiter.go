package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces requests to the image host
type Limiter interface {
	// Allow reports whether a request may proceed right now
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
}

// New returns a limiter allowing requestsPerMinute with the given burst.
// A non-positive rate disables limiting.
func New(requestsPerMinute, burst int) Limiter {
	if requestsPerMinute <= 0 {
		return Unlimited{}
	}
	if burst < 1 {
		burst = 1
	}
	return NewTokenBucket(requestsPerMinute, time.Minute, burst)
}

// TokenBucket is a token bucket backed by golang.org/x/time/rate
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows count requests per period, up to burst at once
func NewTokenBucket(count int, period time.Duration, burst int) *TokenBucket {
	every := period / time.Duration(count)
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

// Unlimited never blocks
type Unlimited struct{}

func (Unlimited) Allow() bool { return true }

func (Unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
