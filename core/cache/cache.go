// Package cache is the period-scoped fallback cache.
// Every dataset is cached under "<dataset>_<period>" and mirrors the last rows written or read remotely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

type (
	// Store is a string-keyed blob store. Implementations live in storage/cachestore.
	Store interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
	}

	// Record is what gets written to the Store.
	Record struct {
		Key       string          `json:"key"`
		Payload   json.RawMessage `json:"payload"`
		WrittenAt time.Time       `json:"written_at"`
	}

	Cache struct {
		store  Store
		logger core.Logger
	}
)

func New(store Store, logger core.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Key is case-sensitive: Key("metrics", weekly) != Key("Metrics", weekly).
func Key(dataset string, period core.Period) string {
	return dataset + "_" + string(period)
}

// Record returns the raw cached record. Any error is logged and reported as absent.
func (c *Cache) Record(ctx context.Context, dataset string, period core.Period) (Record, bool) {
	key := Key(dataset, period)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) != ErrMiss {
			c.logger.Warn(fmt.Sprintf("reading cache key %q: %v", key, err), err)
		}
		return Record{}, false
	}

	var rec Record
	if err = json.Unmarshal(data, &rec); err != nil || len(rec.Payload) == 0 {
		c.logger.Warn(fmt.Sprintf("decoding cache key %q: malformed record", key), err)
		return Record{}, false
	}
	return rec, true
}

// Get decodes the cached payload into dst and reports whether it was found.
// Malformed payloads count as absent.
func (c *Cache) Get(ctx context.Context, dataset string, period core.Period, dst interface{}) bool {
	rec, ok := c.Record(ctx, dataset, period)
	if !ok {
		return false
	}
	if err := json.Unmarshal(rec.Payload, dst); err != nil {
		c.logger.Warn(fmt.Sprintf("decoding cache key %q: %v", rec.Key, err), err)
		return false
	}
	return true
}

// Put replaces the whole cached payload. Errors are logged, never returned.
func (c *Cache) Put(ctx context.Context, dataset string, period core.Period, payload interface{}) {
	key := Key(dataset, period)
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("encoding cache key %q: %v", key, err), err)
		return
	}
	data, err := json.Marshal(Record{Key: key, Payload: raw, WrittenAt: core.NowFunc().UTC()})
	if err != nil {
		c.logger.Warn(fmt.Sprintf("encoding cache key %q: %v", key, err), err)
		return
	}
	if err = c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn(fmt.Sprintf("writing cache key %q: %v", key, err), err)
	}
}
