package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skillswap/skillswap-api/internal/api/handler"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
	"github.com/skillswap/skillswap-api/internal/core/service"
	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	mongostore "github.com/skillswap/skillswap-api/internal/infrastructure/db/mongo"
	pgstore "github.com/skillswap/skillswap-api/internal/infrastructure/db/postgres"
	redisstore "github.com/skillswap/skillswap-api/internal/infrastructure/db/redis"
)

// backend holds the stores selected by STORE_DRIVER plus the optional login
// limiter. Close releases every connection it opened.
type backend struct {
	users    ports.CredentialStore
	admins   ports.CredentialStore
	profiles ports.ProfileRepository
	limiter  ports.LoginLimiter
	health   map[string]handler.Pinger

	mu      sync.Mutex
	closers []func()
}

// openBackend connects the store and, when withLimiter is set and Redis is
// enabled, the Redis limiter. Both dial concurrently.
func openBackend(ctx context.Context, cfg *config.Config, withLimiter bool, log zerolog.Logger) (*backend, error) {
	b := &backend{
		limiter: service.NopLimiter{},
		health:  map[string]handler.Pinger{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		switch cfg.StoreDriver {
		case config.DriverMongo:
			return b.openMongo(gctx, cfg, log)
		default:
			return b.openPostgres(gctx, cfg, log)
		}
	})
	if withLimiter && cfg.Redis.Enabled {
		g.Go(func() error {
			return b.openRedis(gctx, cfg, log)
		})
	}

	if err := g.Wait(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backend) openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	log.Info().Msg("connected to postgres")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = pgstore.NewCredentialStore(pool, domain.KindUser)
	b.admins = pgstore.NewCredentialStore(pool, domain.KindAdmin)
	b.profiles = pgstore.NewProfileRepository(pool)
	b.health["postgres"] = pool.Ping
	b.closers = append(b.closers, pool.Close)
	return nil
}

func (b *backend) openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	users := mongostore.NewCredentialStore(db, domain.KindUser)
	admins := mongostore.NewCredentialStore(db, domain.KindAdmin)
	profiles := mongostore.NewProfileRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, admins, profiles); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo indexes: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.users, b.admins, b.profiles = users, admins, profiles
	b.health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	b.closers = append(b.closers, func() { _ = client.Disconnect(context.Background()) })
	return nil
}

func (b *backend) openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.limiter = redisstore.NewLoginLimiter(client, cfg.Auth.LoginFailureWindow)
	b.health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	b.closers = append(b.closers, func() { _ = client.Close() })
	return nil
}

func (b *backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
