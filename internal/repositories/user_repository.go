package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"viajei/internal/infra"
	"viajei/internal/models/db_models"
)

type UserRepository interface {
	Create(ctx context.Context, user *db_models.User) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.User, error)
	Save(ctx context.Context, user *db_models.User) error
	DeleteWithOwnedData(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (u *userRepository) Create(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *userRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (u *userRepository) FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []db_models.User
	err := u.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (u *userRepository) Save(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Save(user).Error
}

// DeleteWithOwnedData removes the user with their itineraries, ratings and achievements in one transaction.
func (u *userRepository) DeleteWithOwnedData(ctx context.Context, id uuid.UUID) (err error) {
	tx := infra.StartTransaction(u.db.WithContext(ctx))
	if tx.Error != nil {
		return tx.Error
	}
	defer func() { infra.ReleaseTransaction(tx, err) }()

	owned := tx.Unscoped().Model(&db_models.Itinerary{}).Select("id").Where("owner_id = ?", id)
	if err = tx.Where("itinerary_id IN (?)", owned).Delete(&db_models.ItineraryEmbedding{}).Error; err != nil {
		return err
	}
	if err = tx.Unscoped().Where("owner_id = ?", id).Delete(&db_models.Itinerary{}).Error; err != nil {
		return err
	}
	if err = tx.Unscoped().Where("user_id = ?", id).Delete(&db_models.Rating{}).Error; err != nil {
		return err
	}
	if err = tx.Unscoped().Where("user_id = ?", id).Delete(&db_models.Achievement{}).Error; err != nil {
		return err
	}
	err = tx.Unscoped().Delete(&db_models.User{}, "id = ?", id).Error
	return err
}
