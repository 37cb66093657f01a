package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lexconsult/marketplace/internal/availability"
	"github.com/lexconsult/marketplace/internal/booking"
	appconfig "github.com/lexconsult/marketplace/internal/config"
	"github.com/lexconsult/marketplace/internal/directory"
	"github.com/lexconsult/marketplace/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool opens a pgx pool or returns nil when DATABASE_URL is
// empty or the database cannot be reached.
func BuildPostgresPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *pgxpool.Pool {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Warn("invalid DATABASE_URL", "error", err)
		return nil
	}
	poolCfg.MaxConns = 5
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(pingCtx, poolCfg)
	if err != nil {
		logger.Warn("postgres not available", "error", err)
		return nil
	}
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres not available", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildSessionStore keeps booking sessions in Redis when a client is
// available and in process memory otherwise.
func BuildSessionStore(redisClient *redis.Client, logger *logging.Logger) booking.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient == nil {
		logger.Info("booking sessions kept in memory")
		return booking.NewMemoryStore()
	}
	logger.Info("booking sessions kept in redis")
	return booking.NewRedisStore(redisClient)
}

// BuildDirectorySource reads lawyers from Postgres when a pool is available
// and serves the sample directory otherwise.
func BuildDirectorySource(pool *pgxpool.Pool, logger *logging.Logger) directory.Source {
	if logger == nil {
		logger = logging.Default()
	}
	if pool == nil {
		logger.Info("directory served from sample data")
		return directory.NewSampleSource()
	}
	logger.Info("directory served from postgres")
	return directory.NewPostgresSource(pool)
}

// BuildScheduleSource returns the availability generator. A zero seed draws
// from the clock.
func BuildScheduleSource(cfg *appconfig.Config) *availability.Generator {
	if cfg == nil || cfg.AvailabilitySeed == 0 {
		return availability.NewGenerator(nil)
	}
	return availability.NewSeededGenerator(cfg.AvailabilitySeed)
}
