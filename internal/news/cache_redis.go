// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/thanhphv/secnews/internal/platform/constants"
)

// Hot-list cache slots. Each public hot endpoint owns one slot per limit.
const (
	hotListBreaking = "breaking"
	hotListFeatured = "featured"
	hotListTrending = "trending"
)

// RedisHotListCache caches the public breaking/featured/trending listings.
//
// # Consistency Model
//
// The lists are rebuilt from PostgreSQL after [constants.HotListCacheTTL]
// and invalidated eagerly on any article write, so a stale entry can only
// survive a counter drift, never a content change.
type RedisHotListCache struct {
	client *redis.Client
}

// NewHotListCache creates a new Redis-backed hot-list cache.
func NewHotListCache(client *redis.Client) *RedisHotListCache {
	return &RedisHotListCache{client: client}
}

// key builds the cache key for a hot-list slot at a given page size.
func (cache *RedisHotListCache) key(name string, limit int) string {
	return fmt.Sprintf("%s%s:%d", constants.RedisPrefixHotList, name, limit)
}

/*
Get retrieves a cached hot list.

Description: A cache miss is reported through the boolean, not an error;
connectivity failures are returned as errors so the caller can decide to
fall through to the database.

Parameters:
  - context: context.Context
  - name: string hot-list slot
  - limit: int page size the list was built for

Returns:
  - []*Article: Cached list, nil on miss
  - bool: Whether the slot was populated
  - error: Connectivity or decoding failures
*/
func (cache *RedisHotListCache) Get(context context.Context, name string, limit int) ([]*Article, bool, error) {
	payload, err := cache.client.Get(context, cache.key(name, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_hotlist_get_failed: %w", err)
	}

	var articles []*Article
	if err := json.Unmarshal(payload, &articles); err != nil {
		return nil, false, fmt.Errorf("redis_hotlist_decode_failed: %w", err)
	}

	return articles, true, nil
}

/*
Set stores a hot list under its slot with the standard TTL.

Parameters:
  - context: context.Context
  - name: string hot-list slot
  - limit: int page size the list was built for
  - articles: []*Article

Returns:
  - error: Encoding or storage failures
*/
func (cache *RedisHotListCache) Set(context context.Context, name string, limit int, articles []*Article) error {
	payload, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("redis_hotlist_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key(name, limit), payload, constants.HotListCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_hotlist_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops every hot-list slot.

Description: Called after any article write. Keys are discovered by prefix
scan; the hot-list keyspace is tiny (one key per slot and page size), so the
scan cost is negligible.

Parameters:
  - context: context.Context

Returns:
  - error: Connectivity failures
*/
func (cache *RedisHotListCache) Invalidate(context context.Context) error {
	iter := cache.client.Scan(context, 0, constants.RedisPrefixHotList+"*", 0).Iterator()

	var keys []string
	for iter.Next(context) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis_hotlist_scan_failed: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_hotlist_invalidate_failed: %w", err)
	}

	return nil
}
