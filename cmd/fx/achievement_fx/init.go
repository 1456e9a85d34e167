package achievement_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/repositories"
	"viajei/internal/services"
)

var Module = fx.Provide(
	provideAchievementRepo,
	provideAchievementService,
)

func provideAchievementRepo(db *gorm.DB) repositories.AchievementRepository {
	return repositories.NewAchievementRepository(db)
}

func provideAchievementService(
	itineraryRepo repositories.ItineraryRepository,
	ratingRepo repositories.RatingRepository,
	achievementRepo repositories.AchievementRepository,
) services.AchievementServiceInterface {
	return services.NewAchievementService(itineraryRepo, ratingRepo, achievementRepo)
}
