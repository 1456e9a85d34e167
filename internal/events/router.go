package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"viajei/internal/logging"
	"viajei/internal/metrics"
	"viajei/internal/services"
)

const (
	closeTimeout  = 10 * time.Second
	retryAttempts = 2
)

// Router consumes bus events and runs the background work for them.
type Router struct {
	router       *message.Router
	achievements services.AchievementServiceInterface
	embeddings   services.EmbeddingServiceInterface
}

func NewRouter(
	bus *Bus,
	achievements services.AchievementServiceInterface,
	embeddings services.EmbeddingServiceInterface,
) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, bus.logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	r := &Router{router: router, achievements: achievements, embeddings: embeddings}

	// Outermost first: failures are acked after logging so gochannel does not redeliver forever.
	router.AddMiddleware(
		r.ackFailures,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      retryAttempts,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
			Logger:          bus.logger,
		}.Middleware,
	)

	router.AddNoPublisherHandler("evaluate_achievements", TopicAchievementCheck, bus.pubsub, r.handleAchievementCheck)
	router.AddNoPublisherHandler("index_itinerary", TopicItineraryChanged, bus.pubsub, r.handleItineraryChanged)
	return r, nil
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	return r.router.Close()
}

func messageContext(msg *message.Message) context.Context {
	ctx := msg.Context()
	if id := msg.Metadata.Get(traceIDKey); id != "" {
		ctx = logging.ContextWithTraceID(ctx, id)
	}
	return ctx
}

func decode(msg *message.Message) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return p, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return p, nil
}

func (r *Router) ackFailures(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			topic := message.SubscribeTopicFromCtx(msg.Context())
			if topic == TopicAchievementCheck {
				metrics.AchievementEvaluationErrors.Inc()
			}
			logging.Ctx(messageContext(msg)).Error().
				Err(err).
				Str("topic", topic).
				Str("message_id", msg.UUID).
				Msg("event handler failed")
		}
		return produced, nil
	}
}

func (r *Router) handleAchievementCheck(msg *message.Message) error {
	p, err := decode(msg)
	if err != nil {
		return err
	}
	_, err = r.achievements.EvaluateAndUnlock(messageContext(msg), p.UserID)
	return err
}

func (r *Router) handleItineraryChanged(msg *message.Message) error {
	p, err := decode(msg)
	if err != nil {
		return err
	}
	return r.embeddings.Index(messageContext(msg), p.ItineraryID)
}
