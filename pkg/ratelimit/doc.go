// Package ratelimit paces image requests so a crawl stays polite to the
// asset host.
//
// Limiting is off by default. With rate_limit.requests_per_minute set, a
// token bucket from golang.org/x/time/rate spaces requests evenly and allows
// bursts of rate_limit.burst_size:
//
//	limiter := ratelimit.New(60, 1) // one request per second
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
