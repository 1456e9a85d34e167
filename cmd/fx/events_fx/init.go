package events_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"viajei/internal/config"
	"viajei/internal/events"
	"viajei/internal/logging"
	"viajei/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		provideBus,
		provideActivityPublisher,
		provideRouter,
	),
	fx.Invoke(func(*events.Router) {}),
)

func provideBus(lc fx.Lifecycle, cfg *config.Config) *events.Bus {
	bus := events.NewBus(cfg.Events.BufferSize)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bus.Close()
		},
	})
	return bus
}

func provideActivityPublisher(bus *events.Bus) services.ActivityPublisher {
	return events.NewPublisher(bus)
}

// provideRouter starts consuming on app start. Its stop hook runs before the bus is closed.
func provideRouter(
	lc fx.Lifecycle,
	bus *events.Bus,
	achievements services.AchievementServiceInterface,
	embeddings services.EmbeddingServiceInterface,
) (*events.Router, error) {
	router, err := events.NewRouter(bus, achievements, embeddings)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(context.Background()); err != nil {
					logging.Error().Err(err).Msg("event router stopped")
				}
			}()
			select {
			case <-router.Running():
				logging.Info().Msg("event router running")
				return nil
			case <-ctx.Done():
				return fmt.Errorf("event router did not start: %w", ctx.Err())
			}
		},
		OnStop: func(context.Context) error {
			return router.Close()
		},
	})
	return router, nil
}
