// Package ratelimit provides client-side throttling and retry backoff for
// calls to the external aggregator API.
package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Config holds throttle and retry configuration.
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond" mapstructure:"requests_per_second"`
	MaxRetries        int `json:"maxRetries" mapstructure:"max_retries"`
	InitialBackoffMs  int `json:"initialBackoffMs" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int `json:"maxBackoffMs" mapstructure:"max_backoff_ms"`
}

// DefaultConfig returns the default throttle configuration.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 4,
		MaxRetries:        2,
		InitialBackoffMs:  100,
		MaxBackoffMs:      10000,
	}
}

// FetchRetryError is returned when all retry attempts are exhausted.
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error { return e.LastError }

// IsRetryableStatus reports whether an HTTP status is worth retrying.
// Retryable: 429 and 5xx.
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// Backoff calculates the exponential backoff delay for an attempt, with
// 0-25% jitter to avoid synchronized retries.
func Backoff(attempt int, cfg Config) time.Duration {
	delay := float64(cfg.InitialBackoffMs) * math.Pow(2.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}

// RateLimitBackoff calculates the delay after an HTTP 429. The server's
// Retry-After header wins when present; otherwise a steeper 3x curve is used.
func RateLimitBackoff(attempt int, cfg Config, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds)*time.Second + time.Duration(rand.Intn(1000))*time.Millisecond
		}
	}
	delay := float64(cfg.InitialBackoffMs) * math.Pow(3.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}

// Sleep blocks for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Throttler enforces a minimum interval between requests.
type Throttler struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

// NewThrottler creates a throttler from the configured requests-per-second.
func NewThrottler(cfg Config) *Throttler {
	rps := cfg.RequestsPerSecond
	if rps < 1 {
		rps = 1
	}
	return &Throttler{interval: time.Second / time.Duration(rps)}
}

// Wait blocks until the next request slot or ctx cancellation.
func (t *Throttler) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	wait := t.interval - now.Sub(t.last)
	if wait < 0 {
		wait = 0
	}
	t.last = now.Add(wait)
	t.mu.Unlock()

	if wait == 0 {
		return nil
	}
	return Sleep(ctx, wait)
}
