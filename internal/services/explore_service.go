package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const (
	DefaultFeedLimit      = 20
	MaxFeedLimit          = 50
	DefaultHighlightLimit = 10
	MaxHighlightLimit     = 20
)

type ExploreServiceInterface interface {
	Feed(ctx context.Context, filter repositories.PublicFeedFilter) (*response_models.ItineraryList, error)
	Featured(ctx context.Context, limit int) ([]db_models.Itinerary, error)
	PopularDestinations(ctx context.Context, limit int) ([]repositories.PopularDestinationRow, error)
	ToggleLike(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ToggleLike, error)
	ToggleSave(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ToggleSave, error)
	Saved(ctx context.Context, actor uuid.UUID, page, limit int) (*response_models.ItineraryList, error)
}

type ExploreService struct {
	itineraryRepo repositories.ItineraryRepository
	userRepo      repositories.UserRepository
}

func NewExploreService(itineraryRepo repositories.ItineraryRepository, userRepo repositories.UserRepository) ExploreServiceInterface {
	return &ExploreService{
		itineraryRepo: itineraryRepo,
		userRepo:      userRepo,
	}
}

// publicView strips the fields that only participants may see.
func publicView(itineraries []db_models.Itinerary) []db_models.Itinerary {
	if itineraries == nil {
		return []db_models.Itinerary{}
	}
	for i := range itineraries {
		itineraries[i].Collaborators = nil
		itineraries[i].AIPrompt = nil
		itineraries[i].LastEditedBy = nil
	}
	return itineraries
}

func clampLimit(limit, def, max int) int {
	_, limit = ClampPage(1, limit, def, max)
	return limit
}

// Feed lists public itineraries of public profiles and counts a view for each returned one.
func (e *ExploreService) Feed(ctx context.Context, filter repositories.PublicFeedFilter) (*response_models.ItineraryList, error) {
	filter.Page, filter.Limit = ClampPage(filter.Page, filter.Limit, DefaultFeedLimit, MaxFeedLimit)

	itineraries, total, err := e.itineraryRepo.ListPublicFeed(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("public feed: %w: %w", utils.ErrDatabaseError, err)
	}

	if len(itineraries) > 0 {
		ids := make([]uuid.UUID, len(itineraries))
		for i := range itineraries {
			ids[i] = itineraries[i].ID
		}
		if err := e.itineraryRepo.IncrementViews(ctx, ids); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("count", len(ids)).Msg("failed to count feed views")
		}
	}

	return &response_models.ItineraryList{
		Itineraries: publicView(itineraries),
		Pagination:  response_models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (e *ExploreService) Featured(ctx context.Context, limit int) ([]db_models.Itinerary, error) {
	itineraries, err := e.itineraryRepo.ListFeatured(ctx, clampLimit(limit, DefaultHighlightLimit, MaxHighlightLimit))
	if err != nil {
		return nil, fmt.Errorf("featured itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	return publicView(itineraries), nil
}

func (e *ExploreService) PopularDestinations(ctx context.Context, limit int) ([]repositories.PopularDestinationRow, error) {
	rows, err := e.itineraryRepo.PopularDestinations(ctx, clampLimit(limit, DefaultHighlightLimit, MaxHighlightLimit))
	if err != nil {
		return nil, fmt.Errorf("popular destinations: %w: %w", utils.ErrDatabaseError, err)
	}
	if rows == nil {
		rows = []repositories.PopularDestinationRow{}
	}
	return rows, nil
}

func (e *ExploreService) findPublic(ctx context.Context, id uuid.UUID) (*db_models.Itinerary, error) {
	itinerary, err := e.itineraryRepo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary %s: %w: %w", id, utils.ErrDatabaseError, err)
	}
	if itinerary == nil || !itinerary.IsPublic {
		return nil, utils.ErrNotPublic
	}
	return itinerary, nil
}

func (e *ExploreService) ToggleLike(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ToggleLike, error) {
	itinerary, err := e.findPublic(ctx, itineraryId)
	if err != nil {
		return nil, err
	}

	liked := toggleMember(&itinerary.Likes, actor.String())
	if err := e.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("like itinerary: %w: %w", utils.ErrDatabaseError, err)
	}
	return &response_models.ToggleLike{Liked: liked, LikesCount: len(itinerary.Likes)}, nil
}

func (e *ExploreService) loadUser(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	user, err := e.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func (e *ExploreService) ToggleSave(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ToggleSave, error) {
	if _, err := e.findPublic(ctx, itineraryId); err != nil {
		return nil, err
	}
	user, err := e.loadUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	saved := toggleMember(&user.SavedItineraries, itineraryId.String())
	if err := e.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save itinerary bookmark: %w: %w", utils.ErrDatabaseError, err)
	}
	return &response_models.ToggleSave{Saved: saved, SavedCount: len(user.SavedItineraries)}, nil
}

// Saved pages over the user's bookmark list in save order. Bookmarks whose itinerary is
// gone or no longer public are skipped but still counted in the total.
func (e *ExploreService) Saved(ctx context.Context, actor uuid.UUID, page, limit int) (*response_models.ItineraryList, error) {
	page, limit = ClampPage(page, limit, DefaultFeedLimit, MaxFeedLimit)
	user, err := e.loadUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	total := len(user.SavedItineraries)
	result := &response_models.ItineraryList{
		Itineraries: []db_models.Itinerary{},
		Pagination:  response_models.NewPagination(page, limit, int64(total)),
	}

	start := (page - 1) * limit
	if start >= total {
		return result, nil
	}
	end := min(start+limit, total)

	ids := make([]uuid.UUID, 0, end-start)
	for _, raw := range user.SavedItineraries[start:end] {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	found, err := e.itineraryRepo.ListPublicByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list saved itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	byId := make(map[uuid.UUID]db_models.Itinerary, len(found))
	for _, it := range found {
		byId[it.ID] = it
	}
	for _, id := range ids {
		if it, ok := byId[id]; ok {
			result.Itineraries = append(result.Itineraries, it)
		}
	}
	result.Itineraries = publicView(result.Itineraries)
	return result, nil
}
