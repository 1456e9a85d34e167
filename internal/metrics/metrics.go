package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viajei_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viajei_achievements_unlocked_total",
			Help: "Achievements unlocked by type",
		},
		[]string{"type"},
	)

	AchievementEvaluationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viajei_achievement_evaluation_errors_total",
			Help: "Background achievement evaluations that failed",
		},
	)

	LockoutBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viajei_lockout_blocked_requests_total",
			Help: "Requests rejected because the client address is locked out",
		},
	)

	LockoutFailedAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viajei_lockout_failed_attempts_total",
			Help: "Failed authentication attempts recorded by the lockout guard",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viajei_rate_limited_requests_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	GeneratorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viajei_generator_requests_total",
			Help: "Itinerary generation calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	GeneratorBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viajei_generator_breaker_state",
			Help: "Generator circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viajei_events_published_total",
			Help: "Events published to the in-process bus by topic",
		},
		[]string{"topic"},
	)
)
