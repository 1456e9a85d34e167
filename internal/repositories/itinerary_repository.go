package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "viajei/internal/models/db_models"
)

type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *dbm.Itinerary) error
	FindById(ctx context.Context, id uuid.UUID) (*dbm.Itinerary, error)
	FindByPublicLink(ctx context.Context, link string) (*dbm.Itinerary, error)
	Save(ctx context.Context, itinerary *dbm.Itinerary) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByOwner(ctx context.Context, ownerId uuid.UUID) ([]dbm.Itinerary, error)
	ListAccessible(ctx context.Context, userId uuid.UUID, opts ListOptions) ([]dbm.Itinerary, int64, error)
	ListRatedByOwner(ctx context.Context, ownerId uuid.UUID) ([]dbm.Itinerary, error)
	ListPublicByOwner(ctx context.Context, ownerId uuid.UUID, limit int) ([]dbm.Itinerary, error)
	ListPublicByIds(ctx context.Context, ids []uuid.UUID) ([]dbm.Itinerary, error)

	ListPublicFeed(ctx context.Context, filter PublicFeedFilter) ([]dbm.Itinerary, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]dbm.Itinerary, error)
	PopularDestinations(ctx context.Context, limit int) ([]PopularDestinationRow, error)
	IncrementViews(ctx context.Context, ids []uuid.UUID) error
}

type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Asc    bool
}

type PublicFeedFilter struct {
	ListOptions
	Country     string
	City        string
	BudgetLevel string
	MinDuration int
	MaxDuration int
	MinRating   float64
	Completed   bool
	Search      string
}

type PopularDestinationRow struct {
	City           string   `gorm:"column:city" json:"city"`
	Country        string   `gorm:"column:country" json:"country"`
	CoverImage     *string  `gorm:"column:cover_image" json:"coverImage"`
	ItineraryCount int64    `gorm:"column:itinerary_count" json:"itineraryCount"`
	AverageRating  *float64 `gorm:"column:average_rating" json:"averageRating"`
	AverageBudget  *float64 `gorm:"column:average_budget" json:"averageBudget"`
}

const ratingScoreExpr = "(itineraries.rating->>'score')::int"

var sortColumns = map[string]string{
	"createdAt": "itineraries.created_at",
	"updatedAt": "itineraries.updated_at",
	"startDate": "itineraries.start_date",
	"title":     "itineraries.title",
	"views":     "itineraries.views",
	"duration":  "itineraries.duration",
	"rating":    ratingScoreExpr,
}

func orderClause(opts ListOptions, fallback string) string {
	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = sortColumns[fallback]
	}
	if opts.Asc {
		return col + " ASC NULLS LAST"
	}
	return col + " DESC NULLS LAST"
}

func paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

func selectOwnerPublicFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar", "public_profile")
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) Create(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(itinerary).Error
}

func (r *itineraryRepository) FindById(ctx context.Context, id uuid.UUID) (*dbm.Itinerary, error) {
	var itinerary dbm.Itinerary
	err := r.db.WithContext(ctx).First(&itinerary, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

func (r *itineraryRepository) FindByPublicLink(ctx context.Context, link string) (*dbm.Itinerary, error) {
	var itinerary dbm.Itinerary
	err := r.db.WithContext(ctx).
		Preload("Owner", selectOwnerPublicFields).
		Where("public_link = ? AND is_public = ?", link, true).
		First(&itinerary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

// Save writes every column except views, which only IncrementViews may change.
func (r *itineraryRepository) Save(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "views").Save(itinerary).Error
}

// Delete is a hard delete; embedded days, expenses and collaborators go with the row.
func (r *itineraryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&dbm.Itinerary{}, "id = ?", id).Error
}

func (r *itineraryRepository) ListByOwner(ctx context.Context, ownerId uuid.UUID) ([]dbm.Itinerary, error) {
	var itineraries []dbm.Itinerary
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("created_at DESC").
		Find(&itineraries).Error
	return itineraries, err
}

func collaboratorFilter(userId uuid.UUID) string {
	return fmt.Sprintf(`[{"user":%q}]`, userId.String())
}

func (r *itineraryRepository) ListAccessible(ctx context.Context, userId uuid.UUID, opts ListOptions) ([]dbm.Itinerary, int64, error) {
	base := r.db.WithContext(ctx).Model(&dbm.Itinerary{}).
		Where("itineraries.owner_id = ? OR itineraries.collaborators @> ?::jsonb", userId, collaboratorFilter(userId)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itineraries []dbm.Itinerary
	err := base.
		Preload("Owner", selectOwnerPublicFields).
		Order(orderClause(opts, "updatedAt")).
		Scopes(paginate(opts.Page, opts.Limit)).
		Find(&itineraries).Error
	return itineraries, total, err
}

func (r *itineraryRepository) ListRatedByOwner(ctx context.Context, ownerId uuid.UUID) ([]dbm.Itinerary, error) {
	var itineraries []dbm.Itinerary
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Where(ratingScoreExpr + " IS NOT NULL").
		Order("itineraries.rating->>'ratedAt' DESC").
		Find(&itineraries).Error
	return itineraries, err
}

func (r *itineraryRepository) ListPublicByOwner(ctx context.Context, ownerId uuid.UUID, limit int) ([]dbm.Itinerary, error) {
	var itineraries []dbm.Itinerary
	err := r.db.WithContext(ctx).
		Omit("ai_prompt", "collaborators").
		Where("owner_id = ? AND is_public = ?", ownerId, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&itineraries).Error
	return itineraries, err
}

func (r *itineraryRepository) ListPublicByIds(ctx context.Context, ids []uuid.UUID) ([]dbm.Itinerary, error) {
	if len(ids) == 0 {
		return []dbm.Itinerary{}, nil
	}
	var itineraries []dbm.Itinerary
	err := r.db.WithContext(ctx).
		Preload("Owner", selectOwnerPublicFields).
		Where("id IN ? AND is_public = ?", ids, true).
		Find(&itineraries).Error
	return itineraries, err
}

// ListPublicFeed joins the owner so only public itineraries of public profiles are returned.
func (r *itineraryRepository) ListPublicFeed(ctx context.Context, f PublicFeedFilter) ([]dbm.Itinerary, int64, error) {
	q := r.db.WithContext(ctx).Model(&dbm.Itinerary{}).
		Joins("JOIN users ON users.id = itineraries.owner_id AND users.deleted_at IS NULL").
		Where("itineraries.is_public = ? AND users.public_profile = ?", true, true)

	if f.Country != "" {
		q = q.Where("itineraries.destination_country ILIKE ?", "%"+f.Country+"%")
	}
	if f.City != "" {
		q = q.Where("itineraries.destination_city ILIKE ?", "%"+f.City+"%")
	}
	if f.BudgetLevel != "" {
		q = q.Where("itineraries.budget_level = ?", f.BudgetLevel)
	}
	if f.MinDuration > 0 {
		q = q.Where("itineraries.duration >= ?", f.MinDuration)
	}
	if f.MaxDuration > 0 {
		q = q.Where("itineraries.duration <= ?", f.MaxDuration)
	}
	if f.MinRating > 0 {
		q = q.Where(ratingScoreExpr+" >= ?", f.MinRating)
	}
	if f.Completed {
		q = q.Where("itineraries.status = ?", dbm.StatusCompleted)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("itineraries.title ILIKE ? OR itineraries.destination_city ILIKE ? OR itineraries.destination_country ILIKE ?", like, like, like)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itineraries []dbm.Itinerary
	err := q.
		Select("itineraries.*").
		Preload("Owner", selectOwnerPublicFields).
		Order(orderClause(f.ListOptions, "createdAt")).
		Scopes(paginate(f.Page, f.Limit)).
		Find(&itineraries).Error
	return itineraries, total, err
}

func (r *itineraryRepository) ListFeatured(ctx context.Context, limit int) ([]dbm.Itinerary, error) {
	var itineraries []dbm.Itinerary
	err := r.db.WithContext(ctx).
		Omit("collaborators", "ai_prompt").
		Preload("Owner", selectOwnerPublicFields).
		Where("itineraries.is_public = ? AND itineraries.status = ?", true, dbm.StatusCompleted).
		Where(ratingScoreExpr+" >= ?", 4).
		Order("itineraries.views DESC").
		Order(ratingScoreExpr + " DESC").
		Limit(limit).
		Find(&itineraries).Error
	return itineraries, err
}

func (r *itineraryRepository) PopularDestinations(ctx context.Context, limit int) ([]PopularDestinationRow, error) {
	var rows []PopularDestinationRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Select(`
			destination_city AS city,
			destination_country AS country,
			MAX(destination_cover_image) AS cover_image,
			COUNT(*) AS itinerary_count,
			ROUND(AVG((rating->>'score')::numeric), 1) AS average_rating,
			ROUND(AVG(budget_estimated_total)::numeric, 2) AS average_budget`).
		Where("is_public = ?", true).
		Group("destination_city, destination_country").
		Order("itinerary_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *itineraryRepository) IncrementViews(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("id IN ?", ids).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
