package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/config"
	"viajei/internal/repositories"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

var Module = fx.Provide(
	provideUserRepo,
	provideJWTManager,
	provideAccountService,
)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
}

func provideAccountService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	itineraryRepo repositories.ItineraryRepository,
	achievementRepo repositories.AchievementRepository,
	jwt *utils.JWTManager,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, itineraryRepo, achievementRepo, jwt, cfg.Auth.AdminEmails)
}
