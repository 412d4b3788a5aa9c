// Package bootstrap builds the runtime dependencies named by a config.Config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"nftfavorites/pkg/config"
	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/favorites/memory"
	pg "nftfavorites/pkg/favorites/postgres"
	favredis "nftfavorites/pkg/favorites/redis"
	"nftfavorites/pkg/favorites/sqlite"
	"nftfavorites/pkg/identity"
	"nftfavorites/pkg/logger"
	"nftfavorites/pkg/migrations"
	"nftfavorites/pkg/price"
	"nftfavorites/pkg/price/cache"
)

// CloseFunc releases what an Open call acquired.
type CloseFunc func() error

func noClose() error { return nil }

// OpenStore connects the favorites backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.Store, log *logger.Logger) (favorites.KV, CloseFunc, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		log.Info(ctx, "using in-memory store")
		return memory.New(), noClose, nil

	case config.DriverPostgres:
		if cfg.Migrate {
			if err := migrations.Apply(ctx, cfg.DatabaseURL, log); err != nil {
				return nil, nil, err
			}
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Info(ctx, "using postgres store")
		return pg.New(db), db.Close, nil

	case config.DriverRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info(ctx, "using redis store", "addr", cfg.RedisAddr)
		return favredis.New(client, cfg.RedisPrefix), client.Close, nil

	case config.DriverSQLite:
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "using sqlite store", "path", cfg.SQLitePath)
		return kv, kv.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// PriceLookup builds the pricing client, throttled and cached as cfg asks.
func PriceLookup(cfg config.Price) price.Lookup {
	opts := []price.Option{
		price.WithHTTPClient(price.NewHTTPClient(cfg.Timeout)),
		price.WithMaxResponseBytes(cfg.MaxResponseBytes),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, price.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, price.WithHeader(http.Header{"X-Cg-Demo-Api-Key": []string{cfg.APIKey}}))
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, price.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)))
	}

	client := price.NewClient(opts...)
	if cfg.CacheTTL <= 0 {
		return client
	}
	return &cache.Lookup{L: client, TTL: cfg.CacheTTL, MaxItems: cfg.CacheMaxItems}
}

// Resolver builds the identity resolver for cfg.Identity.Mode. Session mode
// reads from identity.redisAddr, falling back to store.redisAddr.
func Resolver(ctx context.Context, cfg config.Config, log *logger.Logger) (identity.Resolver, CloseFunc, error) {
	switch cfg.Identity.Mode {
	case "", config.IdentityHeader:
		return identity.Header{Name: cfg.Identity.Header}, noClose, nil

	case config.IdentitySession:
		addr := cfg.Identity.RedisAddr
		if addr == "" {
			addr = cfg.Store.RedisAddr
		}
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping session redis %s: %w", addr, err)
		}
		log.Info(ctx, "resolving identity from sessions", "addr", addr)
		return identity.Session{
			Client: client,
			Cookie: cfg.Identity.SessionCookie,
			Prefix: cfg.Identity.SessionPrefix,
		}, client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown identity mode %q", cfg.Identity.Mode)
	}
}
