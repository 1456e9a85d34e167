package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"viajei/internal/models/db_models"
)

type ItineraryEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *db_models.ItineraryEmbedding) error
	Delete(ctx context.Context, itineraryId uuid.UUID) error
	// Nearest returns public itinerary ids ordered by cosine distance to vector.
	Nearest(ctx context.Context, vector pgvector.Vector, excludeId uuid.UUID, limit int) ([]SimilarRow, error)
}

type SimilarRow struct {
	ItineraryID uuid.UUID `gorm:"column:itinerary_id"`
	Similarity  float64   `gorm:"column:similarity"`
}

type itineraryEmbeddingRepository struct {
	db *gorm.DB
}

func NewItineraryEmbeddingRepository(db *gorm.DB) ItineraryEmbeddingRepository {
	return &itineraryEmbeddingRepository{db: db}
}

func (r *itineraryEmbeddingRepository) Upsert(ctx context.Context, embedding *db_models.ItineraryEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "itinerary_id"}},
			UpdateAll: true,
		}).
		Create(embedding).Error
}

func (r *itineraryEmbeddingRepository) Delete(ctx context.Context, itineraryId uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.ItineraryEmbedding{}, "itinerary_id = ?", itineraryId).Error
}

func (r *itineraryEmbeddingRepository) Nearest(ctx context.Context, vector pgvector.Vector, excludeId uuid.UUID, limit int) ([]SimilarRow, error) {
	var rows []SimilarRow

	query := `
        SELECT e.itinerary_id, (1 - (e.embedding <=> ?)) AS similarity
        FROM itinerary_embeddings e
        JOIN itineraries i ON i.id = e.itinerary_id
        WHERE i.is_public = TRUE AND i.deleted_at IS NULL AND e.itinerary_id <> ?
        ORDER BY e.embedding <=> ?
        LIMIT ?
    `

	err := r.db.WithContext(ctx).Raw(query, vector, excludeId, vector, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
