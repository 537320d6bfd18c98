package cachestore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/cache"
)

// RedisStore shares cache entries between API instances. A zero ttl keeps entries until overwritten.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ cache.Store = (*RedisStore)(nil) // interface compliance check

func NewRedisStore(addr string, db int, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return newRedisStore(client, ttl), nil
}

func newRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		cache.RecordStoreOperation(BackendRedis, "get", "miss")
		return nil, cache.ErrMiss
	}
	if err != nil {
		cache.RecordStoreOperation(BackendRedis, "get", "error")
		return nil, errors.Wrap(err, "getting redis key")
	}
	cache.RecordStoreOperation(BackendRedis, "get", "hit")
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		cache.RecordStoreOperation(BackendRedis, "set", "error")
		return errors.Wrap(err, "setting redis key")
	}
	cache.RecordStoreOperation(BackendRedis, "set", "ok")
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
