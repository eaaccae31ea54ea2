/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-29 12:15:00
 * @Description: 原始响应缓存 - 按到期时间决定缓存时长
 */
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"whoisrecord/providers"
	"whoisrecord/utils"
)

// CachedParts 缓存中的原始响应，解析结果不入缓存，命中后重新构建记录
type CachedParts struct {
	Provider string              `json:"provider"`
	Response *providers.Response `json:"response"`
	CachedAt time.Time           `json:"cachedAt"`
}

// PartCache 缓存提供商返回的 Part 列表
type PartCache struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

func NewPartCache(rdb *redis.Client, defaultTTL time.Duration) *PartCache {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &PartCache{rdb: rdb, defaultTTL: defaultTTL}
}

// Get 未命中时返回 (nil, nil)
func (c *PartCache) Get(ctx context.Context, q utils.Query) (*CachedParts, error) {
	data, err := c.rdb.Get(ctx, utils.PartsCacheKey(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading part cache: %w", err)
	}

	var entry CachedParts
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding part cache: %w", err)
	}
	return &entry, nil
}

// Set 写入缓存，expiresOn 为零值时使用默认时长
func (c *PartCache) Set(ctx context.Context, q utils.Query, entry *CachedParts, expiresOn time.Time) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, utils.PartsCacheKey(q), data, c.TTL(expiresOn, time.Now())).Err()
}

// TTL 根据域名到期时间计算缓存时间，越接近到期缓存越短
func (c *PartCache) TTL(expiresOn, now time.Time) time.Duration {
	if expiresOn.IsZero() {
		return c.defaultTTL
	}

	daysUntilExpiry := expiresOn.Sub(now).Hours() / 24

	switch {
	case daysUntilExpiry <= 15:
		return 1 * time.Hour
	case daysUntilExpiry <= 30:
		return 6 * time.Hour
	case daysUntilExpiry <= 90:
		return 12 * time.Hour
	default:
		return c.defaultTTL
	}
}
