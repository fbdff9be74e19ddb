// api/service/cache_aside.go
package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

const DefaultRecordTTL = 30 * time.Second

// CacheAside reads records through the TTL cache. Misses scan the store
// and populate `<entity>:<id>`; writes bypass the cache, so readers may
// see a stale record for up to one TTL.
type CacheAside[T model.Record] struct {
	cache  db.KeyValueStore
	store  *dao.RecordDAO[T]
	entity string
	ttl    time.Duration
	group  singleflight.Group
}

func NewCacheAside[T model.Record](cache db.KeyValueStore, store *dao.RecordDAO[T], entity string, ttl time.Duration) *CacheAside[T] {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &CacheAside[T]{cache: cache, store: store, entity: entity, ttl: ttl}
}

func (c *CacheAside[T]) key(id int) string {
	return c.entity + ":" + strconv.Itoa(id)
}

// Get returns the record with id or the store's not-found error, which is
// never cached.
func (c *CacheAside[T]) Get(ctx context.Context, id int) (*T, error) {
	key := c.key(id)

	cached, found, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Record cache unavailable, reading store", zap.String("key", key), zap.Error(err))
	} else if found {
		var rec T
		if err := json.Unmarshal([]byte(cached), &rec); err == nil {
			logger.Debug("Cache hit", zap.String("key", key))
			return &rec, nil
		}
		logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	// The shared load outlives any single caller; each caller stops
	// waiting when its own ctx is done.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		rec, err := c.store.Get(loadCtx, id)
		if err != nil {
			return nil, err
		}
		c.populate(loadCtx, key, rec)
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rec := *res.Val.(*T)
		return &rec, nil
	}
}

func (c *CacheAside[T]) populate(ctx context.Context, key string, rec *T) {
	data, err := json.Marshal(rec)
	if err != nil {
		logger.Warn("Failed to encode record for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.SetWithTTL(ctx, key, string(data), c.ttl); err != nil {
		logger.Warn("Failed to cache record", zap.String("key", key), zap.Error(err))
	}
}
