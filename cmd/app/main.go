package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"viajei/cmd/fx/account_fx"
	"viajei/cmd/fx/achievement_fx"
	"viajei/cmd/fx/config_fx"
	"viajei/cmd/fx/controllers_fx"
	"viajei/cmd/fx/db_fx"
	"viajei/cmd/fx/embedding_fx"
	"viajei/cmd/fx/events_fx"
	"viajei/cmd/fx/itinerary_fx"
	"viajei/cmd/fx/memcache_fx"
	"viajei/cmd/fx/rating_fx"
	"viajei/internal/api"
	"viajei/internal/config"
	"viajei/internal/logging"
	"viajei/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		itinerary_fx.Module,
		rating_fx.Module,
		achievement_fx.Module,
		embedding_fx.Module,
		events_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(utils.RegisterValidators),
		fx.Invoke(StartServer),
		fx.StopTimeout(30*time.Second),
	)

	app.Run()
}

func ProvideRouter(cfg *config.Config, p api.RouterParams) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return api.NewRouter(p)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logging.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logging.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logging.Info().Msg("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
