// Package cachestore holds the cache.Store backends: in-memory, SQLite and Redis.
package cachestore

import (
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var ErrUnknownBackend = errors.New("unknown cache backend")

// Open returns the Store configured in conf.Cache, and a function releasing its resources.
func Open(conf *core.Config) (cache.Store, func() error, error) {
	switch conf.Cache.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), func() error { return nil }, nil
	case BackendSQLite:
		store, err := NewSQLiteStore(conf.Cache.SQLitePath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening sqlite cache store")
		}
		return store, store.Close, nil
	case BackendRedis:
		store, err := NewRedisStore(conf.Cache.RedisAddr, conf.Cache.RedisDB, conf.Cache.RedisPassword, conf.Cache.TTL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening redis cache store")
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnknownBackend, "%q", conf.Cache.Backend)
	}
}
