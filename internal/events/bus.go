package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"viajei/internal/logging"
	"viajei/internal/metrics"
)

const (
	TopicAchievementCheck = "achievements.evaluate"
	TopicItineraryChanged = "itineraries.index"

	traceIDKey = "trace_id"
)

// Payload is the body of every event on the bus.
type Payload struct {
	UserID      uuid.UUID `json:"userId,omitempty"`
	ItineraryID uuid.UUID `json:"itineraryId,omitempty"`
}

// Bus is the in-process pub/sub shared by the publisher and the router.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

func NewBus(bufferSize int64) *Bus {
	logger := newLoggerAdapter()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: bufferSize}, logger),
		logger: logger,
	}
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Publisher implements services.ActivityPublisher on top of the bus. Failures are
// logged and never reach the caller.
type Publisher struct {
	bus *Bus
}

func NewPublisher(bus *Bus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) publish(ctx context.Context, topic string, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("failed to encode event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if id := logging.TraceIDFromContext(ctx); id != "" {
		msg.Metadata.Set(traceIDKey, id)
	}

	if err := p.bus.pubsub.Publish(topic, msg); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("failed to publish event")
		return
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
}

func (p *Publisher) AchievementCheck(ctx context.Context, userId uuid.UUID) {
	p.publish(ctx, TopicAchievementCheck, Payload{UserID: userId})
}

func (p *Publisher) ItineraryChanged(ctx context.Context, itineraryId uuid.UUID) {
	p.publish(ctx, TopicItineraryChanged, Payload{ItineraryID: itineraryId})
}
