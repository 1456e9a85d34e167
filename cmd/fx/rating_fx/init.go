package rating_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/repositories"
	"viajei/internal/services"
)

var Module = fx.Provide(
	provideRatingRepo,
	provideRatingService,
)

func provideRatingRepo(db *gorm.DB) repositories.RatingRepository {
	return repositories.NewRatingRepository(db)
}

func provideRatingService(
	ratingRepo repositories.RatingRepository,
	itineraryRepo repositories.ItineraryRepository,
	publisher services.ActivityPublisher,
) services.RatingServiceInterface {
	return services.NewRatingService(ratingRepo, itineraryRepo, publisher)
}
