package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{200, false},
		{301, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{599, true},
		{600, false},
	}

	for _, tt := range tests {
		if result := IsRetryableStatus(tt.status); result != tt.expected {
			t.Errorf("IsRetryableStatus(%d) = %v, want %v", tt.status, result, tt.expected)
		}
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 1000}

	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt, cfg)
		if d < 100*time.Millisecond {
			t.Errorf("attempt %d: backoff %v below initial", attempt, d)
		}
		// Max plus 25% jitter headroom.
		if d > 1250*time.Millisecond {
			t.Errorf("attempt %d: backoff %v above cap", attempt, d)
		}
	}
}

func TestRateLimitBackoffHonorsRetryAfter(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 60000}

	d := RateLimitBackoff(0, cfg, "3")
	if d < 3*time.Second || d > 4*time.Second {
		t.Errorf("RateLimitBackoff with Retry-After 3 = %v, want within [3s, 4s]", d)
	}

	// Unparseable header falls back to the exponential curve.
	d = RateLimitBackoff(0, cfg, "soon")
	if d < 100*time.Millisecond || d > 200*time.Millisecond {
		t.Errorf("RateLimitBackoff fallback = %v, want within [100ms, 200ms]", d)
	}
}

func TestSleepCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Minute); err == nil {
		t.Error("Sleep on cancelled context returned nil, want error")
	}
}

func TestThrottlerSpacesRequests(t *testing.T) {
	throttler := NewThrottler(Config{RequestsPerSecond: 100})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := throttler.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// 5 requests at 100 rps need at least 4 intervals of 10ms.
	if elapsed < 40*time.Millisecond {
		t.Errorf("5 waits took %v, want >= 40ms", elapsed)
	}
}

func TestFetchRetryErrorMessage(t *testing.T) {
	err := &FetchRetryError{URL: "http://example.com", Attempts: 3, LastStatus: 503}
	want := "failed to fetch http://example.com after 3 attempts (HTTP 503)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
