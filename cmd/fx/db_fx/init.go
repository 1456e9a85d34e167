package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/api/controllers"
	"viajei/internal/config"
	"viajei/internal/infra"
)

var Module = fx.Provide(
	provideDB,
	fx.Annotate(provideHealthCheck, fx.ResultTags(`group:"health"`)),
)

func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}

func provideHealthCheck(db *gorm.DB) controllers.Dependency {
	return controllers.Dependency{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}
