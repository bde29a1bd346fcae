package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// RateLimitedLLM wraps an LLM service with a client-side request rate cap.
// Generate blocks until the limiter grants a token or the context ends.
type RateLimitedLLM struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// NewRateLimitedLLM wraps svc so that at most requestsPerMinute Generate
// calls are issued per minute. Burst is capped at one so requests spread
// evenly rather than front-loading the window.
func NewRateLimitedLLM(svc driven.LLMService, requestsPerMinute int) *RateLimitedLLM {
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &RateLimitedLLM{
		inner:   svc,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Generate waits for the rate limiter, then delegates.
func (s *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped service's model name.
func (s *RateLimitedLLM) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a rate token.
func (s *RateLimitedLLM) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (s *RateLimitedLLM) Close() error {
	return s.inner.Close()
}
