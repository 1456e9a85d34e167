package generator

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"viajei/internal/logging"
	"viajei/internal/metrics"
)

type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
	CallTimeout      time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Minute,
		CallTimeout:      60 * time.Second,
	}
}

// Resilient guards a remote generator with a circuit breaker. Any failure,
// including an open breaker, is answered by the fallback generator.
type Resilient struct {
	primary     ItineraryGenerator
	fallback    ItineraryGenerator
	cb          *gobreaker.CircuitBreaker[*Plan]
	callTimeout time.Duration
}

func NewResilient(primary, fallback ItineraryGenerator, cfg BreakerConfig) *Resilient {
	settings := gobreaker.Settings{
		Name:        "generator-" + primary.Name(),
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.GeneratorBreakerState.Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("generator circuit breaker state changed")
		},
	}
	return &Resilient{
		primary:     primary,
		fallback:    fallback,
		cb:          gobreaker.NewCircuitBreaker[*Plan](settings),
		callTimeout: cfg.CallTimeout,
	}
}

func (r *Resilient) Name() string { return r.primary.Name() }

func (r *Resilient) Generate(ctx context.Context, req Request) (*Plan, error) {
	plan, err := r.cb.Execute(func() (*Plan, error) {
		callCtx := ctx
		if r.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.callTimeout)
			defer cancel()
		}
		return r.primary.Generate(callCtx, req)
	})
	if err == nil {
		metrics.GeneratorRequests.WithLabelValues(r.primary.Name(), "success").Inc()
		return plan, nil
	}

	outcome := "error"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		outcome = "breaker_open"
	}
	metrics.GeneratorRequests.WithLabelValues(r.primary.Name(), outcome).Inc()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logging.Ctx(ctx).Warn().Err(err).
		Str("provider", r.primary.Name()).
		Str("fallback", r.fallback.Name()).
		Msg("generator failed, using fallback")

	plan, ferr := r.fallback.Generate(ctx, req)
	if ferr != nil {
		return nil, errors.Join(err, ferr)
	}
	metrics.GeneratorRequests.WithLabelValues(r.fallback.Name(), "fallback").Inc()
	return plan, nil
}

func (r *Resilient) State() gobreaker.State {
	return r.cb.State()
}
