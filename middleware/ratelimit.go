/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-03-31 04:10:00
 * @Description: 限流中间件
 */
package middleware

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"whoisrecord/pkg/logger"
	"whoisrecord/services"
	"whoisrecord/utils"
)

// IPRateLimiter 内存中的IP限流器
type IPRateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*ipLimiter
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter 创建一个新的IP限流器
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*ipLimiter),
		r:         r,
		b:         b,
		idleTTL:   10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// getLimiter 获取特定IP的限流器，顺带清理长时间空闲的条目
func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	if now.Sub(i.lastSweep) > i.idleTTL {
		for k, v := range i.ips {
			if now.Sub(v.lastSeen) > i.idleTTL {
				delete(i.ips, k)
			}
		}
		i.lastSweep = now
	}

	entry, exists := i.ips[ip]
	if !exists {
		entry = &ipLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Allow 检查是否允许请求
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

// RateLimitConfig 限流器配置
type RateLimitConfig struct {
	// Limiter 非nil时使用redis滑动窗口，否则使用内存令牌桶
	Limiter    *services.RateLimiter
	Rate       int           // 周期内允许的请求数
	Period     time.Duration // 限流周期
	Burst      int           // 内存限流的突发数量
	ExcludeIPs []string      // 排除的IP或CIDR
	Message    string        // 超限消息
}

// DefaultRateLimitConfig 默认限流器配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:       60,
		Period:     time.Minute,
		Burst:      10,
		ExcludeIPs: []string{"127.0.0.1", "::1"},
		Message:    "请求过于频繁，请稍后再试",
	}
}

// isExcludedIP 检查IP是否在排除列表中
func isExcludedIP(ip string, excludeIPs []string) bool {
	parsedIP := net.ParseIP(ip)
	for _, excludeIP := range excludeIPs {
		if ip == excludeIP {
			return true
		}
		if _, ipNet, err := net.ParseCIDR(excludeIP); err == nil && parsedIP != nil && ipNet.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// RateLimitWithConfig 限流中间件（可配置）
func RateLimitWithConfig(config RateLimitConfig) gin.HandlerFunc {
	var ipLimiter *IPRateLimiter
	if config.Limiter == nil {
		ipLimiter = NewIPRateLimiter(rate.Limit(float64(config.Rate)/config.Period.Seconds()), config.Burst)
	} else {
		config.Rate = config.Limiter.Limit()
		config.Period = config.Limiter.Window()
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if isExcludedIP(ip, config.ExcludeIPs) {
			c.Next()
			return
		}

		allowed := true
		remaining := -1
		if ipLimiter != nil {
			allowed = ipLimiter.Allow(ip)
		} else {
			ok, left, err := config.Limiter.Allow(c.Request.Context(), ip)
			if err != nil {
				// redis故障时放行
				logger.WithRequest(c, "RateLimit").Warnf("redis limiter error, allowing request: %v", err)
			} else {
				allowed, remaining = ok, left
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Rate))
		if remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(config.Period.Seconds())))
			utils.ErrorResponse(c, 429, "TOO_MANY_REQUESTS", config.Message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// HealthCheckRateLimit 健康检查限流中间件，始终使用内存限流
func HealthCheckRateLimit() gin.HandlerFunc {
	config := DefaultRateLimitConfig()
	config.Rate = 300
	config.Message = "健康检查请求过于频繁"
	return RateLimitWithConfig(config)
}
