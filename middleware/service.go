/*
 * @Author: AsisYu
 * @Date: 2025-04-24
 * @Description: 服务注入中间件
 */
package middleware

import (
	"github.com/gin-gonic/gin"

	"whoisrecord/services"
)

// 上下文中的服务键
const (
	RecordManagerKey = "recordManager"
	WorkerPoolKey    = "workerPool"
	RedisKey         = "redis"
)

// ServiceMiddleware Gin路由器中间件，用于在请求上下文中添加各种服务
func ServiceMiddleware(container *services.ServiceContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if container != nil {
			if container.RecordManager != nil {
				c.Set(RecordManagerKey, container.RecordManager)
			}
			if container.WorkerPool != nil {
				c.Set(WorkerPoolKey, container.WorkerPool)
			}
			if container.RedisClient != nil {
				c.Set(RedisKey, container.RedisClient)
			}
		}

		c.Next()
	}
}
