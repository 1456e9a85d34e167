package memcache_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"viajei/internal/api/controllers"
	"viajei/internal/config"
	"viajei/internal/infra"
	"viajei/internal/logging"
	mem "viajei/pkg/memcache"
)

var Module = fx.Provide(provideLockoutStore)

type lockoutResult struct {
	fx.Out

	Store  mem.LockoutStore
	Health []controllers.Dependency `group:"health,flatten"`
}

func provideLockoutStore(lc fx.Lifecycle, cfg *config.Config) (lockoutResult, error) {
	policy := mem.LockoutPolicy{
		MaxAttempts:   cfg.Lockout.MaxAttempts,
		Window:        cfg.Lockout.Window,
		BlockDuration: cfg.Lockout.BlockDuration,
	}

	if cfg.Lockout.Backend == "redis" {
		client, err := infra.InitRedis(cfg)
		if err != nil {
			return lockoutResult{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		logging.Info().Str("addr", cfg.Redis.Addr).Msg("lockout state stored in redis")
		return lockoutResult{
			Store:  mem.NewRedisLockoutStore(client, policy),
			Health: []controllers.Dependency{redisHealth(client)},
		}, nil
	}

	store := mem.NewMemoryLockoutStore(policy)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			store.StartSweeper(cfg.Lockout.SweepInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			store.Stop()
			return nil
		},
	})
	logging.Warn().Msg("lockout state is process local; use LOCKOUT_BACKEND=redis when running several instances")
	return lockoutResult{Store: store}, nil
}

func redisHealth(client *redis.Client) controllers.Dependency {
	return controllers.Dependency{
		Name: "redis",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
