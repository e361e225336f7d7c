// Package cache defines the key/value port the feed service caches rendered
// pages through, with a redis adapter and an in-process fallback.
package cache

import (
	"context"
	"time"
)

// Cache 带 TTL 的键值缓存
type Cache interface {
	// Get 未命中时返回 ok=false 且 err=nil
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix 删除所有以 prefix 开头的键
	DeletePrefix(ctx context.Context, prefix string) error
}
