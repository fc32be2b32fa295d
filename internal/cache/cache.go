// Package cache 提供带过期时间的键值缓存，值以 JSON 存储。
package cache

import (
	"context"
	"time"
)

// Cache 通用缓存接口
type Cache interface {
	// Get 命中时把值解码进 dest 并返回 true
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
