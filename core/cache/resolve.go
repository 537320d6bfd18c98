package cache

import (
	"context"
	"fmt"

	"github.com/alramz/cxdash/core"
)

// Source tells which tier a resolved dataset came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

type (
	// FetchFunc reads a dataset from the durable store.
	FetchFunc[T any] func(ctx context.Context) (T, error)

	// WriteFunc persists a dataset to the durable store.
	WriteFunc func(ctx context.Context) error
)

// Resolve reads dataset for period through the fallback chain: remote, then cache, then fallback(period).
// A non-empty remote result refreshes the cache. An empty cached value counts as a miss.
// Resolve never fails.
func Resolve[T any](
	ctx context.Context,
	c *Cache,
	dataset string,
	period core.Period,
	fetch FetchFunc[T],
	isEmpty func(T) bool,
	fallback func(core.Period) T,
) (T, Source) {
	if fetch != nil {
		val, err := fetch(ctx)
		switch {
		case err != nil:
			c.logger.Warn(fmt.Sprintf("fetching %s (%s): %v", dataset, period, err), err)
		case !isEmpty(val):
			c.Put(ctx, dataset, period, val)
			recordResolve(dataset, SourceRemote)
			return val, SourceRemote
		}
	}

	var cached T
	if c.Get(ctx, dataset, period, &cached) && !isEmpty(cached) {
		recordResolve(dataset, SourceCache)
		return cached, SourceCache
	}

	recordResolve(dataset, SourceDefault)
	return fallback(period), SourceDefault
}

// WriteThrough persists payload through remote, then mirrors it into the cache.
// A nil remote means there is no session: core.ErrNoSession is reported and only the cache is written.
// The mirror is written even when remote fails. The returned bool reports durable persistence;
// the error explains why it did not happen and is never fatal.
func (c *Cache) WriteThrough(ctx context.Context, dataset string, period core.Period, payload interface{}, remote WriteFunc) (bool, error) {
	var err error
	if remote == nil {
		err = core.ErrNoSession
	} else if err = remote(ctx); err != nil {
		c.logger.Error(fmt.Sprintf("saving %s (%s): %v", dataset, period, err), err)
	}
	c.Put(ctx, dataset, period, payload)
	recordWrite(dataset, err == nil)
	return err == nil, err
}
