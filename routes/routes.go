/*
 * @Author: AsisYu
 * @Date: 2025-04-24
 * @Description: API路由注册
 */
package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"whoisrecord/handlers"
	"whoisrecord/middleware"
	"whoisrecord/pkg/logger"
	"whoisrecord/services"
	"whoisrecord/utils"
)

// 查询校验中间件，解析 :query 路径参数并写入上下文
func queryValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("query")
		if raw == "" {
			utils.ErrorResponse(c, 400, "MISSING_PARAMETER", "Query parameter is required")
			c.Abort()
			return
		}

		q, err := utils.ParseQuery(raw)
		if err != nil {
			logger.WithRequest(c, "Routes").Infof("rejected query %q: %v", utils.TruncateString(raw, 64), err)
			utils.ErrorResponse(c, 400, "INVALID_QUERY", "Invalid domain, IP address or AS number")
			c.Abort()
			return
		}

		c.Set(handlers.QueryKey, q)
		c.Next()
	}
}

// 查询超时中间件，限制一次请求中全部转介查询的总耗时
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LookupTimeout 单次查询的总时限，最多经过 IANA、注册局、注册商三跳
func LookupTimeout(whoisTimeout time.Duration) time.Duration {
	return 3*whoisTimeout + 5*time.Second
}

// CompareTimeout 比较接口两侧各需一次查询
func CompareTimeout(whoisTimeout time.Duration) time.Duration {
	return 2 * LookupTimeout(whoisTimeout)
}

// MaxRouteTimeout 所有路由中最长的时限，服务器写超时不能短于它
func MaxRouteTimeout(whoisTimeout time.Duration) time.Duration {
	return CompareTimeout(whoisTimeout)
}

// RegisterAPIRoutes 注册所有API路由
func RegisterAPIRoutes(r *gin.Engine, serviceContainer *services.ServiceContainer) {
	cfg := serviceContainer.Config
	log := logger.Module("Routes")

	lookupTimeout := LookupTimeout(cfg.WhoisTimeout)

	r.GET("/api/health", middleware.HealthCheckRateLimit(), handlers.HealthCheckHandler(cfg.Version))

	apiv1 := r.Group("/api/v1")

	if !cfg.DisableSecurity {
		auth := middleware.NewAuth(cfg.JWTSecret, serviceContainer.RedisClient)

		// 认证令牌路由 - 用于客户端获取JWT令牌
		r.POST("/api/auth/token", auth.GenerateToken())

		apiv1.Use(auth.Required())
	} else {
		log.Warn("API安全限制已禁用! 任何人都可以访问API，这在生产环境中不安全")
	}

	rateLimitConfig := middleware.DefaultRateLimitConfig()
	rateLimitConfig.Rate = cfg.RateLimit
	rateLimitConfig.Period = cfg.RatePeriod
	rateLimitConfig.Limiter = serviceContainer.Limiter
	apiv1.Use(middleware.RateLimitWithConfig(rateLimitConfig))

	apiv1.Use(middleware.SizeLimitWithConfig(middleware.DefaultSizeLimitConfig()))

	apiv1.GET("/catalog", handlers.CatalogHandler)

	apiv1.POST("/whois/compare", timeoutMiddleware(CompareTimeout(cfg.WhoisTimeout)), handlers.WhoisComparisonHandler)

	whoisGroup := apiv1.Group("/whois/:query")
	whoisGroup.Use(queryValidationMiddleware())
	whoisGroup.Use(timeoutMiddleware(lookupTimeout))
	whoisGroup.GET("", handlers.WhoisHandler)
	whoisGroup.GET("/:member", handlers.MemberHandler)
}
