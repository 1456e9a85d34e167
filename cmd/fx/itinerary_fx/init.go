package itinerary_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/config"
	"viajei/internal/generator"
	"viajei/internal/repositories"
	"viajei/internal/services"
)

var Module = fx.Provide(
	provideItineraryRepo,
	provideGenerator,
	provideItineraryService,
	provideBudgetService,
	provideShareService,
	provideExploreService,
)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideGenerator(cfg *config.Config) (generator.ItineraryGenerator, error) {
	return generator.New(context.Background(), cfg)
}

func provideItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	userRepo repositories.UserRepository,
	gen generator.ItineraryGenerator,
	publisher services.ActivityPublisher,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(itineraryRepo, userRepo, gen, publisher)
}

func provideBudgetService(itineraryRepo repositories.ItineraryRepository) services.BudgetServiceInterface {
	return services.NewBudgetService(itineraryRepo)
}

func provideShareService(cfg *config.Config, itineraryRepo repositories.ItineraryRepository, publisher services.ActivityPublisher) services.ShareServiceInterface {
	return services.NewShareService(itineraryRepo, publisher, cfg.Server.PublicBaseURL)
}

func provideExploreService(itineraryRepo repositories.ItineraryRepository, userRepo repositories.UserRepository) services.ExploreServiceInterface {
	return services.NewExploreService(itineraryRepo, userRepo)
}
