package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/utils"
)

// Store is a key-value cache with a per-entry TTL. Get reports a miss
// with hit=false and a nil error; errors mean the backend is unhealthy.
type Store interface {
	Get(ctx context.Context, key string) (value string, hit bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisStore(log *logger.Logger) (*RedisStore, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log: log.With("service", "RedisStore"),
		rdb: rdb,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
