package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"viajei/internal/models/db_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

// CanRead allows the owner, any collaborator, or anyone when the itinerary is public.
func CanRead(actor uuid.UUID, itinerary *db_models.Itinerary) bool {
	if itinerary == nil {
		return false
	}
	if itinerary.IsOwner(actor) || itinerary.IsPublic {
		return true
	}
	_, ok := itinerary.Collaborator(actor)
	return ok
}

// CanWrite allows the owner and collaborators holding edit permission.
func CanWrite(actor uuid.UUID, itinerary *db_models.Itinerary) bool {
	if itinerary == nil {
		return false
	}
	if itinerary.IsOwner(actor) {
		return true
	}
	c, ok := itinerary.Collaborator(actor)
	return ok && c.Permission == db_models.PermissionEdit
}

type accessLevel int

const (
	accessRead accessLevel = iota
	accessWrite
	accessOwner
)

// loadItinerary fetches an itinerary and applies the gate for the requested level.
func loadItinerary(ctx context.Context, repo repositories.ItineraryRepository, actor, id uuid.UUID, level accessLevel) (*db_models.Itinerary, error) {
	itinerary, err := repo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary %s: %w: %w", id, utils.ErrDatabaseError, err)
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}

	switch level {
	case accessOwner:
		if !itinerary.IsOwner(actor) {
			return nil, utils.ErrNotOwner
		}
	case accessWrite:
		if !CanWrite(actor, itinerary) {
			return nil, utils.ErrForbidden
		}
	default:
		if !CanRead(actor, itinerary) {
			return nil, utils.ErrForbidden
		}
	}
	return itinerary, nil
}
