package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// RedisConfig Redis 连接参数, 零值字段使用默认值
type RedisConfig struct {
	ServiceName  string
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxConnAge   time.Duration
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) withDefaults() RedisConfig {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
	if c.MaxConnAge == 0 {
		c.MaxConnAge = time.Hour
	}
	return c
}

func (c RedisConfig) options() *redis.Options {
	return &redis.Options{
		Addr:            c.Addr(),
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		ConnMaxLifetime: c.MaxConnAge,
	}
}

// RedisClient 令牌存储等共用的客户端
type RedisClient struct {
	*redis.Client
}

// NewRedisClient wraps an existing client, e.g. one pointed at a test server.
func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client}
}

// InitRedis connects and pings; the client is closed again when the ping fails.
func InitRedis(ctx context.Context, cfg RedisConfig) (*RedisClient, error) {
	cfg = cfg.withDefaults()
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr(), err)
	}

	zap.L().Info("redis connected",
		zap.String("service", cfg.ServiceName),
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
	)
	return NewRedisClient(client), nil
}
