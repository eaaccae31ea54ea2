/*
 * @Author: AsisYu
 * @Date: 2025-04-24
 * @Description: 健康检查处理程序
 */
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"whoisrecord/middleware"
	"whoisrecord/pkg/logger"
)

// HealthCheckHandler 健康检查API处理程序
// detailed=true 时附带各提供商状态
func HealthCheckHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		detailed := c.DefaultQuery("detailed", "false") == "true"
		log := logger.WithRequest(c, "Health")

		services := gin.H{}
		response := gin.H{
			"status":   "up",
			"version":  version,
			"time":     time.Now().UTC().Format(time.RFC3339),
			"services": services,
		}

		overall := "up"
		if m, ok := recordManager(c); ok {
			overall = m.OverallStatus()
			whois := gin.H{"status": overall}
			if detailed {
				whois["providers"] = m.ProvidersStatus()
				whois["backends"] = m.Registry().Hosts()
			}
			services["whois"] = whois
		} else {
			overall = "down"
			services["whois"] = gin.H{"status": "down"}
		}

		if v, ok := c.Get(middleware.RedisKey); ok {
			if rdb, ok := v.(*redis.Client); ok {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				redisStatus := gin.H{"status": "up"}
				if err := rdb.Ping(ctx).Err(); err != nil {
					log.Warnf("redis ping failed: %v", err)
					redisStatus = gin.H{"status": "down", "error": err.Error()}
					if overall == "up" {
						overall = "degraded"
					}
				}
				services["redis"] = redisStatus
			}
		} else {
			services["redis"] = gin.H{"status": "disabled"}
		}

		response["status"] = overall
		code := http.StatusOK
		if overall == "down" {
			code = http.StatusServiceUnavailable
		}
		log.Debugf("health check: status=%s detailed=%v", overall, detailed)
		c.JSON(code, response)
	}
}
