package persistence

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy selects how failed saves are retried.
type RetryPolicy string

const (
	// RetryFixed waits the same delay between every attempt.
	RetryFixed RetryPolicy = "fixed"
	// RetryBackoff grows the delay exponentially with jitter.
	RetryBackoff RetryPolicy = "backoff"
)

// ParseRetryPolicy validates a policy name.
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	switch p := RetryPolicy(s); p {
	case RetryFixed, RetryBackoff:
		return p, nil
	case "":
		return RetryFixed, nil
	}
	return "", fmt.Errorf("unknown retry policy %q (want fixed or backoff)", s)
}

// RetryConfig controls save retries.
type RetryConfig struct {
	Policy RetryPolicy
	// InitialWait is the fixed delay, or the first backoff delay.
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	// MaxAttempts bounds the attempts of one save; 0 retries forever.
	MaxAttempts int
	// AttemptTimeout bounds a single write.
	AttemptTimeout time.Duration
}

// DefaultRetryConfig retries every 30 seconds until the save succeeds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Policy:         RetryFixed,
		InitialWait:    30 * time.Second,
		MaxWait:        5 * time.Minute,
		Multiplier:     2.0,
		MaxAttempts:    0,
		AttemptTimeout: 10 * time.Second,
	}
}

// exhausted reports whether attempt was the last one allowed.
func (c RetryConfig) exhausted(attempt int) bool {
	return c.MaxAttempts > 0 && attempt >= c.MaxAttempts
}

// backoff computes the wait after the given zero-based failed attempt.
func (c RetryConfig) backoff(attempt int) time.Duration {
	if c.Policy != RetryBackoff {
		return c.InitialWait
	}

	wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		wait = float64(c.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
