package services

import (
	"context"

	"github.com/google/uuid"
)

// ActivityPublisher schedules background work after a mutation has been persisted.
// Implementations must not block the caller and must not return errors to it.
type ActivityPublisher interface {
	AchievementCheck(ctx context.Context, userId uuid.UUID)
	ItineraryChanged(ctx context.Context, itineraryId uuid.UUID)
}

type noopPublisher struct{}

func (noopPublisher) AchievementCheck(context.Context, uuid.UUID) {}
func (noopPublisher) ItineraryChanged(context.Context, uuid.UUID) {}

// NoopPublisher discards every event.
func NoopPublisher() ActivityPublisher { return noopPublisher{} }
