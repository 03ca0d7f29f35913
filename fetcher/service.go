package fetcher

import (
	"context"
	"net/url"
	"time"

	"github.com/use-agent/ragforge/metrics"
	"github.com/use-agent/ragforge/models"
)

// Service pairs a Fetcher with one project's rate limiter and proxy
// rotator, implementing the full fetch(url, options) operation: adaptive
// delay, proxy rotation, and retry-with-new-proxy-per-attempt.
type Service struct {
	fetcher *Fetcher
	limiter *RateLimiter
	proxies *ProxyRotator
}

// NewService builds a Service from project-level rate-limit/proxy settings.
func NewService(baseDelay, maxDelay time.Duration, multiplier float64, rawProxies []string) *Service {
	return &Service{
		fetcher: New(),
		limiter: NewRateLimiter(baseDelay, maxDelay, multiplier),
		proxies: NewProxyRotator(rawProxies),
	}
}

// Fetch performs the full fetch operation: wait on the rate limiter, attempt
// through a rotated proxy (retrying up to proxies+1 times if proxies are
// enabled, else a single attempt), and feed the outcome back into the rate
// limiter and proxy rotator.
func (s *Service) Fetch(ctx context.Context, req *Request) (*Result, *models.PipelineError) {
	attempts := 1
	if s.proxies.Enabled() {
		attempts = s.proxies.Count() + 1
	}

	var lastErr *models.PipelineError
	for attempt := 0; attempt < attempts; attempt++ {
		s.limiter.Wait(ctx.Done())
		if ctx.Err() != nil {
			return nil, models.NewPipelineError("fetch", models.ErrCodeCancelled, req.URL, ctx.Err())
		}

		var proxy *url.URL
		if s.proxies.Enabled() {
			proxy = s.proxies.Next()
		}

		start := time.Now()
		result, outcome, err := s.fetcher.FetchVia(ctx, req, proxy)
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.FetchesTotal.WithLabelValues("success").Inc()
			s.limiter.RecordSuccess()
			s.proxies.RecordSuccess(proxy)
			return result, nil
		}

		metrics.FetchesTotal.WithLabelValues(err.Code).Inc()
		lastErr = err
		s.proxies.RecordFailure(proxy)

		switch outcome.Status {
		case 429:
			s.limiter.RecordRateLimited(outcome.RetryAfter)
		default:
			s.limiter.RecordError()
		}
	}
	return nil, lastErr
}

// CurrentDelay exposes the rate limiter's current delay for diagnostics.
func (s *Service) CurrentDelay() time.Duration { return s.limiter.CurrentDelay() }
