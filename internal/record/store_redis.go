package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain string keys with a native TTL.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore { return &RedisStore{rdb: rdb} }

func redisKey(scope, key string) string { return fmt.Sprintf("record:%s:%s", scope, key) }

func (s *RedisStore) Put(ctx context.Context, scope, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, redisKey(scope, key), value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, redisKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
