/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-10 16:12:00
 * @Description: 基于Redis的分布式限流器
 */
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"whoisrecord/utils"
)

// RateLimiter 基于有序集合的滑动窗口限流
type RateLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int           // 时间窗口内允许的最大请求数
	window time.Duration // 时间窗口
}

// NewRateLimiter 创建新的限流器，scope 区分不同接口的计数
func NewRateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
	}
}

// Allow 记录一次请求并返回是否允许以及窗口内剩余次数
func (rl *RateLimiter) Allow(ctx context.Context, client string) (bool, int, error) {
	key := utils.RateLimitKey(rl.scope, client)
	now := time.Now().UnixNano()
	windowStart := now - int64(rl.window)

	pipe := rl.rdb.TxPipeline()
	// 移除时间窗口之外的请求记录
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now), Member: now})
	countCmd := pipe.ZCard(ctx, key)
	// key 过期时间为窗口的两倍，避免长期占用内存
	pipe.Expire(ctx, key, rl.window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limiter: %w", err)
	}

	count := int(countCmd.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, nil
}

// Limit 窗口内允许的最大请求数
func (rl *RateLimiter) Limit() int { return rl.limit }

// Window 时间窗口
func (rl *RateLimiter) Window() time.Duration { return rl.window }
