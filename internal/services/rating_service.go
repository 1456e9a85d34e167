package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const (
	DefaultRatingPageSize = 20
	MaxRatingPageSize     = 100
)

type RatingServiceInterface interface {
	CreateOrUpdate(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.RatingRequest) (*response_models.RatingMutation, error)
	ListByItinerary(ctx context.Context, actor, itineraryId uuid.UUID, page, pageSize int) (*response_models.RatingList, error)
	MyRating(ctx context.Context, actor, itineraryId uuid.UUID) (*db_models.Rating, error)
	MyRatings(ctx context.Context, actor uuid.UUID) ([]db_models.Rating, error)
	Delete(ctx context.Context, actor, ratingId uuid.UUID) error
	ToggleLike(ctx context.Context, actor, ratingId uuid.UUID) (*response_models.ToggleLike, error)

	AddOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.OwnerReviewRequest) (*db_models.RatingSummary, error)
	UpdateOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.OwnerReviewRequest) (*db_models.RatingSummary, error)
	ClearOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID) error
}

type RatingService struct {
	ratingRepo    repositories.RatingRepository
	itineraryRepo repositories.ItineraryRepository
	publisher     ActivityPublisher
	now           func() time.Time
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	itineraryRepo repositories.ItineraryRepository,
	publisher ActivityPublisher,
) RatingServiceInterface {
	return &RatingService{
		ratingRepo:    ratingRepo,
		itineraryRepo: itineraryRepo,
		publisher:     publisher,
		now:           time.Now,
	}
}

// participant is the rating gate: the owner or any collaborator.
func participant(actor uuid.UUID, itinerary *db_models.Itinerary) bool {
	if itinerary.IsOwner(actor) {
		return true
	}
	_, ok := itinerary.Collaborator(actor)
	return ok
}

func applyRating(r *db_models.Rating, req request_models.RatingRequest) error {
	r.Score = req.Score
	if req.Comment != nil && *req.Comment != "" {
		r.Comment = *req.Comment
	}
	if req.Photos != nil {
		r.Photos = pq.StringArray(req.Photos)
	}
	if req.Highlights != nil {
		r.Highlights = pq.StringArray(req.Highlights)
	}
	if req.WouldRecommend != nil {
		r.WouldRecommend = *req.WouldRecommend
	}
	if req.TravelDate != nil && *req.TravelDate != "" {
		d, err := utils.ParseDate(*req.TravelDate)
		if err != nil {
			return err
		}
		r.TravelDate = &d
	}
	return nil
}

func (s *RatingService) CreateOrUpdate(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.RatingRequest) (*response_models.RatingMutation, error) {
	itinerary, err := s.itineraryRepo.FindById(ctx, itineraryId)
	if err != nil {
		return nil, fmt.Errorf("load itinerary %s: %w: %w", itineraryId, utils.ErrDatabaseError, err)
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}
	if !participant(actor, itinerary) {
		return nil, utils.ErrForbidden
	}

	rating, created, err := s.upsert(ctx, actor, itinerary, req)
	if err != nil {
		return nil, err
	}

	if itinerary.IsOwner(actor) {
		ratedAt := s.now()
		score := rating.Score
		itinerary.Rating = db_models.RatingSummary{
			Score:   &score,
			Comment: rating.Comment,
			Photos:  append([]string{}, rating.Photos...),
			RatedAt: &ratedAt,
		}
		itinerary.Status = db_models.StatusCompleted
		if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
			return nil, fmt.Errorf("mirror owner rating: %w: %w", utils.ErrDatabaseError, err)
		}
		s.publisher.ItineraryChanged(ctx, itinerary.ID)
	}

	logging.Ctx(ctx).Info().
		Str("rating_id", rating.ID.String()).
		Str("itinerary_id", itineraryId.String()).
		Bool("created", created).
		Msg("rating saved")

	s.publisher.AchievementCheck(ctx, actor)

	msg := "Avaliação atualizada com sucesso"
	if created {
		msg = "Avaliação criada com sucesso"
	}
	return &response_models.RatingMutation{Created: created, Message: msg, Rating: rating}, nil
}

// upsert writes the (itinerary, user) rating. A concurrent first write that loses the
// unique index race is retried as an update.
func (s *RatingService) upsert(ctx context.Context, actor uuid.UUID, itinerary *db_models.Itinerary, req request_models.RatingRequest) (*db_models.Rating, bool, error) {
	existing, err := s.ratingRepo.FindByItineraryAndUser(ctx, itinerary.ID, actor)
	if err != nil {
		return nil, false, fmt.Errorf("find rating: %w: %w", utils.ErrDatabaseError, err)
	}

	if existing == nil {
		rating := &db_models.Rating{
			ItineraryID:    itinerary.ID,
			UserID:         actor,
			Photos:         pq.StringArray{},
			Highlights:     pq.StringArray{},
			Likes:          pq.StringArray{},
			WouldRecommend: true,
		}
		if err := applyRating(rating, req); err != nil {
			return nil, false, err
		}
		if rating.TravelDate == nil {
			end := itinerary.EndDate
			rating.TravelDate = &end
		}

		err := s.ratingRepo.Create(ctx, rating)
		if err == nil {
			return rating, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("create rating: %w: %w", utils.ErrDatabaseError, err)
		}
		if existing, err = s.ratingRepo.FindByItineraryAndUser(ctx, itinerary.ID, actor); err != nil {
			return nil, false, fmt.Errorf("reload rating after conflict: %w: %w", utils.ErrDatabaseError, err)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("rating vanished after conflict: %w", utils.ErrDatabaseError)
		}
	}

	if err := applyRating(existing, req); err != nil {
		return nil, false, err
	}
	if err := s.ratingRepo.Save(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("update rating: %w: %w", utils.ErrDatabaseError, err)
	}
	return existing, false, nil
}

func buildRatingStats(buckets []repositories.ScoreBucket) response_models.ItineraryRatingStats {
	stats := response_models.ItineraryRatingStats{
		AverageScore:       "0",
		Distribution:       map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		RecommendationRate: "0",
	}
	var sum, recommended int64
	for _, b := range buckets {
		stats.TotalRatings += b.Count
		sum += int64(b.Score) * b.Count
		recommended += b.Recommended
		stats.Distribution[b.Score] += int(b.Count)
	}
	if stats.TotalRatings > 0 {
		n := float64(stats.TotalRatings)
		stats.AverageScore = fmt.Sprintf("%.1f", float64(sum)/n)
		stats.RecommendationRate = fmt.Sprintf("%.0f", float64(recommended)/n*100)
	}
	return stats
}

// ListByItinerary is open to anyone who may read the itinerary.
func (s *RatingService) ListByItinerary(ctx context.Context, actor, itineraryId uuid.UUID, page, pageSize int) (*response_models.RatingList, error) {
	if _, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessRead); err != nil {
		return nil, err
	}
	page, pageSize = ClampPage(page, pageSize, DefaultRatingPageSize, MaxRatingPageSize)

	ratings, total, err := s.ratingRepo.ListByItinerary(ctx, itineraryId, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w: %w", utils.ErrDatabaseError, err)
	}
	buckets, err := s.ratingRepo.ScoreBuckets(ctx, itineraryId)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w: %w", utils.ErrDatabaseError, err)
	}
	if ratings == nil {
		ratings = []db_models.Rating{}
	}

	return &response_models.RatingList{
		Ratings:    ratings,
		Stats:      buildRatingStats(buckets),
		Pagination: response_models.NewPagination(page, pageSize, total),
	}, nil
}

func (s *RatingService) MyRating(ctx context.Context, actor, itineraryId uuid.UUID) (*db_models.Rating, error) {
	rating, err := s.ratingRepo.FindByItineraryAndUser(ctx, itineraryId, actor)
	if err != nil {
		return nil, fmt.Errorf("find rating: %w: %w", utils.ErrDatabaseError, err)
	}
	if rating == nil {
		return nil, utils.ErrRatingNotFound
	}
	return rating, nil
}

func (s *RatingService) MyRatings(ctx context.Context, actor uuid.UUID) ([]db_models.Rating, error) {
	ratings, err := s.ratingRepo.ListByUser(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list my ratings: %w: %w", utils.ErrDatabaseError, err)
	}
	if ratings == nil {
		ratings = []db_models.Rating{}
	}
	return ratings, nil
}

func (s *RatingService) findRating(ctx context.Context, id uuid.UUID) (*db_models.Rating, error) {
	rating, err := s.ratingRepo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find rating %s: %w: %w", id, utils.ErrDatabaseError, err)
	}
	if rating == nil {
		return nil, utils.ErrRatingNotFound
	}
	return rating, nil
}

// Delete removes a rating authored by actor. When the author owns the itinerary the
// mirrored review is cleared too.
func (s *RatingService) Delete(ctx context.Context, actor, ratingId uuid.UUID) error {
	rating, err := s.findRating(ctx, ratingId)
	if err != nil {
		return err
	}
	if rating.UserID != actor {
		return utils.ErrForbidden
	}
	if err := s.ratingRepo.Delete(ctx, ratingId); err != nil {
		return fmt.Errorf("delete rating %s: %w: %w", ratingId, utils.ErrDatabaseError, err)
	}

	itinerary, err := s.itineraryRepo.FindById(ctx, rating.ItineraryID)
	if err != nil {
		return fmt.Errorf("load rated itinerary: %w: %w", utils.ErrDatabaseError, err)
	}
	if itinerary != nil && itinerary.IsOwner(actor) && itinerary.Rating.Score != nil {
		itinerary.Rating = db_models.RatingSummary{}
		if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
			return fmt.Errorf("clear owner rating: %w: %w", utils.ErrDatabaseError, err)
		}
	}

	logging.Ctx(ctx).Info().Str("rating_id", ratingId.String()).Msg("rating deleted")
	return nil
}

func (s *RatingService) ToggleLike(ctx context.Context, actor, ratingId uuid.UUID) (*response_models.ToggleLike, error) {
	rating, err := s.findRating(ctx, ratingId)
	if err != nil {
		return nil, err
	}

	liked := toggleMember(&rating.Likes, actor.String())
	if err := s.ratingRepo.Save(ctx, rating); err != nil {
		return nil, fmt.Errorf("like rating: %w: %w", utils.ErrDatabaseError, err)
	}
	return &response_models.ToggleLike{Liked: liked, LikesCount: rating.LikesCount()}, nil
}

// toggleMember adds id to the set or removes it, reporting whether it is now present.
func toggleMember(set *pq.StringArray, id string) bool {
	for i, v := range *set {
		if v == id {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return false
		}
	}
	*set = append(*set, id)
	return true
}

func (s *RatingService) AddOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.OwnerReviewRequest) (*db_models.RatingSummary, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessOwner)
	if err != nil {
		return nil, err
	}
	if req.Score == nil {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", utils.ErrInvalidInput)
	}
	if !itinerary.IsCompleted() {
		return nil, fmt.Errorf("%w: only completed itineraries can be reviewed", utils.ErrInvalidInput)
	}

	ratedAt := s.now()
	score := *req.Score
	summary := db_models.RatingSummary{Score: &score, Photos: []string{}, RatedAt: &ratedAt}
	if req.Comment != nil {
		summary.Comment = *req.Comment
	}
	if req.Photos != nil {
		summary.Photos = req.Photos
	}
	itinerary.Rating = summary

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("save owner review: %w: %w", utils.ErrDatabaseError, err)
	}
	return &itinerary.Rating, nil
}

func (s *RatingService) UpdateOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.OwnerReviewRequest) (*db_models.RatingSummary, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessOwner)
	if err != nil {
		return nil, err
	}
	if itinerary.Rating.Score == nil {
		return nil, utils.ErrRatingNotFound
	}

	if req.Score != nil {
		score := *req.Score
		itinerary.Rating.Score = &score
	}
	if req.Comment != nil {
		itinerary.Rating.Comment = *req.Comment
	}
	if req.Photos != nil {
		itinerary.Rating.Photos = req.Photos
	}
	ratedAt := s.now()
	itinerary.Rating.RatedAt = &ratedAt

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("update owner review: %w: %w", utils.ErrDatabaseError, err)
	}
	return &itinerary.Rating, nil
}

func (s *RatingService) ClearOwnerReview(ctx context.Context, actor, itineraryId uuid.UUID) error {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessOwner)
	if err != nil {
		return err
	}
	itinerary.Rating = db_models.RatingSummary{}
	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return fmt.Errorf("clear owner review: %w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}
