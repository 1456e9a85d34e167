package controllers_fx

import (
	"go.uber.org/fx"
	"viajei/internal/api/controllers"
	mem "viajei/pkg/memcache"
	"viajei/pkg/middleware"
)

var Module = fx.Options(
	fx.Provide(
		provideLockout,
		fx.Annotate(provideHealthController, fx.ParamTags(`group:"health"`)),
		controllers.NewAccountController,
		controllers.NewItineraryController,
		controllers.NewBudgetController,
		controllers.NewShareController,
		controllers.NewExploreController,
		controllers.NewRatingController,
		controllers.NewAchievementController,
		controllers.NewAdminController,
	),
)

func provideLockout(store mem.LockoutStore) *middleware.Lockout {
	return middleware.NewLockout(store)
}

func provideHealthController(deps []controllers.Dependency) *controllers.HealthController {
	checks := make(map[string]controllers.HealthCheck, len(deps))
	for _, d := range deps {
		checks[d.Name] = d.Check
	}
	return controllers.NewHealthController(checks)
}
