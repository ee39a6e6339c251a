package redis

import (
	"context"
	"net"
	"realty/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// New dials the primary Redis and exits the process when it does not answer.
func New(cfg *config.Config) *goRedis.Client {
	primary := cfg.Cache.Redis.Primary
	dialTimeout := time.Duration(primary.DialTimeoutSeconds) * time.Second

	client := goRedis.NewClient(&goRedis.Options{
		Addr:        net.JoinHostPort(primary.Host, primary.Port),
		Password:    primary.Password,
		DB:          primary.DB,
		PoolSize:    primary.PoolSize,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout+time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("host", primary.Host).Msg("Failed to connect to Redis")
	}

	log.Info().
		Str("host", primary.Host).
		Str("port", primary.Port).
		Int("db", primary.DB).
		Int("pool_size", primary.PoolSize).
		Msg("Connected to Redis")

	return client
}
