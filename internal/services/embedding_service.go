package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"viajei/internal/embeddings"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const (
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20
)

type EmbeddingServiceInterface interface {
	// Index refreshes the stored vector of an itinerary, or drops it when the itinerary is gone.
	Index(ctx context.Context, itineraryId uuid.UUID) error
	Similar(ctx context.Context, actor, itineraryId uuid.UUID, limit int) ([]response_models.SimilarItinerary, error)
}

type EmbeddingService struct {
	itineraryRepo repositories.ItineraryRepository
	embeddingRepo repositories.ItineraryEmbeddingRepository
	embedder      embeddings.Embedder
}

func NewEmbeddingService(
	itineraryRepo repositories.ItineraryRepository,
	embeddingRepo repositories.ItineraryEmbeddingRepository,
	embedder embeddings.Embedder,
) EmbeddingServiceInterface {
	return &EmbeddingService{
		itineraryRepo: itineraryRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
	}
}

func (e *EmbeddingService) Index(ctx context.Context, itineraryId uuid.UUID) error {
	itinerary, err := e.itineraryRepo.FindById(ctx, itineraryId)
	if err != nil {
		return fmt.Errorf("load itinerary %s: %w", itineraryId, err)
	}
	if itinerary == nil {
		return e.embeddingRepo.Delete(ctx, itineraryId)
	}

	doc := embeddings.Document(itinerary)
	vector, err := e.embedder.Embed(ctx, doc)
	if err != nil {
		return fmt.Errorf("embed itinerary %s: %w", itineraryId, err)
	}

	return e.embeddingRepo.Upsert(ctx, &db_models.ItineraryEmbedding{
		ItineraryID: itinerary.ID,
		City:        itinerary.Destination.City,
		Country:     itinerary.Destination.Country,
		Content:     doc,
		Embedding:   vector,
	})
}

// Similar ranks public itineraries by closeness to the given one. The source is embedded
// on the fly so results do not depend on the background indexer having run.
func (e *EmbeddingService) Similar(ctx context.Context, actor, itineraryId uuid.UUID, limit int) ([]response_models.SimilarItinerary, error) {
	source, err := loadItinerary(ctx, e.itineraryRepo, actor, itineraryId, accessRead)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultSimilarLimit, MaxSimilarLimit)

	vector, err := e.embedder.Embed(ctx, embeddings.Document(source))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("itinerary_id", itineraryId.String()).Msg("embedding failed")
		return nil, fmt.Errorf("%w: %v", utils.ErrGeneratorUnavailable, err)
	}

	rows, err := e.embeddingRepo.Nearest(ctx, vector, itineraryId, limit)
	if err != nil {
		return nil, fmt.Errorf("nearest itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return []response_models.SimilarItinerary{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ItineraryID
	}
	found, err := e.itineraryRepo.ListPublicByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load similar itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	byId := make(map[uuid.UUID]db_models.Itinerary, len(found))
	for _, it := range publicView(found) {
		byId[it.ID] = it
	}

	result := make([]response_models.SimilarItinerary, 0, len(rows))
	for _, r := range rows {
		if it, ok := byId[r.ItineraryID]; ok {
			result = append(result, response_models.SimilarItinerary{Itinerary: it, Similarity: r.Similarity})
		}
	}
	return result, nil
}
