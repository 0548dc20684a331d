package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig backs rate limiting and store event fan-out. REDIS_URL, when
// set, replaces the discrete fields.
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		URL:      getEnvWithDefault("REDIS_URL", ""),
		Addr:     getEnvWithDefault("REDIS_HOST", "localhost") + ":" + getEnvWithDefault("REDIS_PORT", "6379"),
		Password: getEnvWithDefault("REDIS_PASSWORD", ""),
		DB:       getEnvIntWithDefault("REDIS_DB", 0),
	}
}

func (c *RedisConfig) options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}, nil
}

// GetClient connects and pings.
func (c *RedisConfig) GetClient(ctx context.Context) (*redis.Client, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
