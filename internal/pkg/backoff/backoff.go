// Package backoff provides retry delay strategies for the background task
// executor. Strategies are stateless and safe for concurrent use.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns how long to wait before retry attempt n (1-indexed).
	// Attempt 1 is the first retry after the initial failure.
	Delay(attempt int) time.Duration
}

// Exponential doubles the delay each attempt.
// Delay = min(Base * 2^(attempt-1), Cap).
type Exponential struct {
	Base time.Duration
	Cap  time.Duration
}

// NewExponential creates an exponential backoff strategy.
func NewExponential(base, cap time.Duration) *Exponential {
	return &Exponential{Base: base, Cap: cap}
}

// Delay returns Base * 2^(attempt-1), capped at Cap.
func (e *Exponential) Delay(attempt int) time.Duration {
	d := time.Duration(float64(e.Base) * math.Pow(2, float64(attempt-1)))
	if e.Cap > 0 && d > e.Cap {
		return e.Cap
	}
	return d
}

// ExponentialWithJitter spreads an exponential base over a random interval
// so simultaneous retries do not land on the store at the same instant.
// Delay = random value in [Base/2, min(Base * 2^(attempt-1), Cap)].
// The lower bound keeps the task subsystem from hot-looping a failing handler.
type ExponentialWithJitter struct {
	Base time.Duration
	Cap  time.Duration
}

// NewExponentialWithJitter creates an exponential backoff with jitter.
func NewExponentialWithJitter(base, cap time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Base: base, Cap: cap}
}

// Delay returns a random duration in [Base/2, min(Base * 2^(attempt-1), Cap)].
func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	ceiling := float64(e.Base) * math.Pow(2, float64(attempt-1))
	if e.Cap > 0 && ceiling > float64(e.Cap) {
		ceiling = float64(e.Cap)
	}
	floor := float64(e.Base) / 2
	if ceiling <= floor {
		return time.Duration(ceiling)
	}
	return time.Duration(floor + rand.Float64()*(ceiling-floor)) //nolint:gosec // jitter intentionally uses non-crypto rand
}
