package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openlistings/backend/internal/utils"
)

// Cache is a thin JSON cache over redis. A nil *Cache is a no-op, so the
// service degrades to uncached reads when redis is not configured.
type Cache struct {
	client *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
	}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		utils.Logger.WithError(err).Warn("redis get failed; treating as miss")
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		utils.Logger.WithError(err).Warn("redis cached payload unreadable; treating as miss")
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		utils.Logger.WithError(err).Warn("redis set marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		utils.Logger.WithError(err).Warn("redis set failed")
	}
}

// InvalidatePrefix drops every key under the prefix. SCAN-based, so safe
// against large keyspaces.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			utils.Logger.WithError(err).Warn("redis del failed during invalidation")
		}
	}
	if err := iter.Err(); err != nil {
		utils.Logger.WithError(err).Warn("redis scan failed during invalidation")
	}
}

// QueryKey builds a deterministic key from a param map: sorted names,
// md5 digest. Same shape regardless of map iteration order.
func QueryKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
		b.WriteString("&")
	}
	sum := md5.Sum([]byte(b.String()))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
