package config_fx

import (
	"go.uber.org/fx"
	"viajei/internal/config"
	"viajei/internal/logging"
)

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Invoke(initLogging),
)

func initLogging(cfg *config.Config) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
