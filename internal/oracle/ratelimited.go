package oracle

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedOracle wraps an Oracle with a token-bucket limiter.
// Callers block until a token is available, which preserves the
// one-outstanding-request discipline of the session core.
type RateLimitedOracle struct {
	oracle  Oracle
	limiter *rate.Limiter
}

// NewRateLimitedOracle wraps an oracle with a limiter allowing rps
// requests per second with the given burst. rps <= 0 disables limiting.
func NewRateLimitedOracle(oracle Oracle, rps float64, burst int) *RateLimitedOracle {
	var limiter *rate.Limiter
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &RateLimitedOracle{
		oracle:  oracle,
		limiter: limiter,
	}
}

// Name returns the underlying provider name
func (o *RateLimitedOracle) Name() string {
	return o.oracle.Name()
}

// Send waits for a token, then delegates.
func (o *RateLimitedOracle) Send(ctx context.Context, prompt string) (string, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", NewError(o.oracle.Name(), ErrorCodeTimeout, err.Error(), err)
		}
	}
	return o.oracle.Send(ctx, prompt)
}
