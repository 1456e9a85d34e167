package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "viajei/internal/models/db_models"
)

type AchievementRepository interface {
	ListByUser(ctx context.Context, userId uuid.UUID) ([]dbm.Achievement, error)
	// CreateIfAbsent inserts the achievement unless (user, type) already exists.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, achievement *dbm.Achievement) (bool, error)
	Totals(ctx context.Context, userId uuid.UUID) (AchievementTotals, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

type AchievementTotals struct {
	Count  int64 `gorm:"column:count"`
	Points int64 `gorm:"column:points"`
}

type LeaderboardRow struct {
	UserID        uuid.UUID `gorm:"column:user_id"`
	Name          string    `gorm:"column:name"`
	Avatar        *string   `gorm:"column:avatar"`
	PublicProfile bool      `gorm:"column:public_profile"`
	TotalPoints   int64     `gorm:"column:total_points"`
	Achievements  int64     `gorm:"column:achievements"`
}

func (r *achievementRepository) ListByUser(ctx context.Context, userId uuid.UUID) ([]dbm.Achievement, error) {
	var achievements []dbm.Achievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("unlocked_at DESC").
		Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepository) CreateIfAbsent(ctx context.Context, achievement *dbm.Achievement) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(achievement)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *achievementRepository) Totals(ctx context.Context, userId uuid.UUID) (AchievementTotals, error) {
	var totals AchievementTotals
	err := r.db.WithContext(ctx).
		Model(&dbm.Achievement{}).
		Select("COUNT(*) AS count, COALESCE(SUM(points), 0) AS points").
		Where("user_id = ?", userId).
		Scan(&totals).Error
	return totals, err
}

// Leaderboard ranks every user with at least one achievement, public profile or not.
func (r *achievementRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.WithContext(ctx).
		Table("achievements a").
		Select(`
			a.user_id,
			u.name,
			u.avatar,
			u.public_profile,
			SUM(a.points) AS total_points,
			COUNT(*) AS achievements`).
		Joins("JOIN users u ON u.id = a.user_id AND u.deleted_at IS NULL").
		Where("a.deleted_at IS NULL").
		Group("a.user_id, u.name, u.avatar, u.public_profile").
		Order("total_points DESC").
		Order("achievements DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
