package policies

import (
	"math"
	"time"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/policy"
)

// Rate gates iterations with a token bucket.
//
// The bucket starts full at the burst capacity and refills continuously at
// the configured rate. The gate is open while at least one token is
// available; every iteration consumes one token.
//
// # Algorithm
//
//  1. Calculate tokens to add based on clock time elapsed since the last refill
//  2. Add tokens (up to capacity)
//  3. ShouldApply: admit if at least one token is available
//  4. Mutate: consume one token
//
// Rate never completes. Pair it with a bound through policy.All (gate: all
// in a chain config); under an OR chain any open member bypasses it.
type Rate struct {
	policy.Base

	capacity   float64       // Maximum tokens in bucket
	refillRate float64       // Tokens added per second
	clock      clock.Clock   // Elapsed time source
	tokens     float64       // Current available tokens
	lastRefill time.Duration // Clock reading at the last refill
}

// NewRate creates a Rate policy admitting perSecond iterations on average
// with bursts of up to burst iterations. A burst below one is raised to one.
//
// Example:
//
//	// 10 iterations/sec average, no burst
//	rate := NewRate(10, 1)
//
//	// 2 iterations/sec average, burst up to 20
//	rate := NewRate(2, 20)
func NewRate(perSecond float64, burst int, opts ...Option) *Rate {
	if burst < 1 {
		burst = 1
	}
	return &Rate{
		capacity:   float64(burst),
		refillRate: perSecond,
		clock:      newSettings(opts).clock,
	}
}

// Initialize fills the bucket and restarts the clock.
func (r *Rate) Initialize() {
	r.clock.Reset()
	r.tokens = r.capacity
	r.lastRefill = 0
}

// ShouldApply reports whether a token is available.
func (r *Rate) ShouldApply(policy.Value) bool {
	r.refill()
	return r.tokens >= 1
}

// Mutate consumes one token. An iteration admitted by another policy on an
// empty bucket does not push the bucket into debt.
func (r *Rate) Mutate() {
	r.refill()
	r.tokens--
	if r.tokens < 0 {
		r.tokens = 0
	}
}

// TimeUntilAvailable returns how long until the next token is available.
// Returns 0 if a token is available now.
func (r *Rate) TimeUntilAvailable() time.Duration {
	r.refill()
	if r.tokens >= 1 {
		return 0
	}
	if r.refillRate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	secondsNeeded := (1 - r.tokens) / r.refillRate
	return time.Duration(secondsNeeded * float64(time.Second))
}

// refill adds tokens based on clock time elapsed since the last refill.
func (r *Rate) refill() {
	now := r.clock.Elapsed()
	elapsed := now - r.lastRefill
	if elapsed <= 0 || r.refillRate <= 0 {
		return
	}

	r.tokens += elapsed.Seconds() * r.refillRate
	if r.tokens > r.capacity {
		r.tokens = r.capacity
	}
	r.lastRefill = now
}
