package fetcher

import (
	"testing"
	"time"
)

func TestRateLimiterAdaptionTrace(t *testing.T) {
	rl := NewRateLimiter(500*time.Millisecond, 8000*time.Millisecond, 2)

	rl.RecordRateLimited(0)
	if got := rl.CurrentDelay(); got != 1000*time.Millisecond {
		t.Fatalf("after 429: got %v, want 1000ms", got)
	}

	rl.RecordSuccess()
	rl.RecordSuccess()
	if got := rl.CurrentDelay(); got != 1000*time.Millisecond {
		t.Fatalf("after 2 successes: got %v, want 1000ms (unchanged)", got)
	}

	rl.RecordSuccess()
	if got := rl.CurrentDelay(); got != 500*time.Millisecond {
		t.Fatalf("after 3rd success: got %v, want 500ms", got)
	}
}

func TestRateLimiterCapsAtMax(t *testing.T) {
	rl := NewRateLimiter(500*time.Millisecond, 2000*time.Millisecond, 2)
	for i := 0; i < 5; i++ {
		rl.RecordRateLimited(0)
	}
	if got := rl.CurrentDelay(); got != 2000*time.Millisecond {
		t.Fatalf("got %v, want capped at 2000ms", got)
	}
}

func TestRateLimiterErrorGrowth(t *testing.T) {
	rl := NewRateLimiter(500*time.Millisecond, 8000*time.Millisecond, 2)
	rl.RecordError()
	if got := rl.CurrentDelay(); got != 500*time.Millisecond {
		t.Fatalf("after 1 error: got %v, want unchanged 500ms", got)
	}
	rl.RecordError()
	if got := rl.CurrentDelay(); got != 750*time.Millisecond {
		t.Fatalf("after 2 errors: got %v, want 750ms (1.5x)", got)
	}
}

func TestProxyRotatorBenchAndReset(t *testing.T) {
	pr := NewProxyRotator([]string{"http://p1.example:8080", "http://p2.example:8080"})
	if !pr.Enabled() || pr.Count() != 2 {
		t.Fatalf("expected 2 proxies configured")
	}

	first := pr.Next()
	for i := 0; i < proxyFailThreshold; i++ {
		pr.RecordFailure(first)
	}

	for i := 0; i < 5; i++ {
		u := pr.Next()
		if u.String() == first.String() {
			t.Fatalf("benched proxy %s should not be returned", first)
		}
	}

	second := pr.Next()
	for i := 0; i < proxyFailThreshold; i++ {
		pr.RecordFailure(second)
	}
	// Both benched now; Next should reset and return a usable proxy.
	u := pr.Next()
	if u == nil {
		t.Fatalf("expected a proxy after full-bench reset")
	}
}
