package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"viajei/internal/models/db_models"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *db_models.Rating) error
	Save(ctx context.Context, rating *db_models.Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Rating, error)
	FindByItineraryAndUser(ctx context.Context, itineraryId, userId uuid.UUID) (*db_models.Rating, error)
	ListByItinerary(ctx context.Context, itineraryId uuid.UUID, page, pageSize int) ([]db_models.Rating, int64, error)
	ListByUser(ctx context.Context, userId uuid.UUID) ([]db_models.Rating, error)
	ScoreBuckets(ctx context.Context, itineraryId uuid.UUID) ([]ScoreBucket, error)
}

type ScoreBucket struct {
	Score       int   `gorm:"column:score"`
	Count       int64 `gorm:"column:count"`
	Recommended int64 `gorm:"column:recommended"`
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *db_models.Rating) error {
	return r.db.WithContext(ctx).Omit("User").Create(rating).Error
}

func (r *ratingRepository) Save(ctx context.Context, rating *db_models.Rating) error {
	return r.db.WithContext(ctx).Omit("User").Save(rating).Error
}

func (r *ratingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&db_models.Rating{}, "id = ?", id).Error
}

func (r *ratingRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Rating, error) {
	var rating db_models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByItineraryAndUser(ctx context.Context, itineraryId, userId uuid.UUID) (*db_models.Rating, error) {
	var rating db_models.Rating
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ? AND user_id = ?", itineraryId, userId).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByItinerary(ctx context.Context, itineraryId uuid.UUID, page, pageSize int) ([]db_models.Rating, int64, error) {
	base := r.db.WithContext(ctx).Model(&db_models.Rating{}).
		Where("itinerary_id = ?", itineraryId).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []db_models.Rating
	err := base.
		Preload("User", selectOwnerPublicFields).
		Order("created_at DESC").
		Scopes(paginate(page, pageSize)).
		Find(&ratings).Error
	return ratings, total, err
}

func (r *ratingRepository) ListByUser(ctx context.Context, userId uuid.UUID) ([]db_models.Rating, error) {
	var ratings []db_models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

// ScoreBuckets groups an itinerary's ratings by score, counting recommendations per bucket.
func (r *ratingRepository) ScoreBuckets(ctx context.Context, itineraryId uuid.UUID) ([]ScoreBucket, error) {
	var buckets []ScoreBucket
	err := r.db.WithContext(ctx).
		Model(&db_models.Rating{}).
		Select("score, COUNT(*) AS count, COUNT(*) FILTER (WHERE would_recommend) AS recommended").
		Where("itinerary_id = ?", itineraryId).
		Group("score").
		Order("score").
		Scan(&buckets).Error
	return buckets, err
}
