/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-28 10:18:00
 * @Description: 跨域请求配置
 */
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var allowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"}

var exposedHeaders = []string{
	"Content-Length", "X-Request-ID",
	"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
}

// CORSConfig 由允许的来源生成 gin-contrib/cors 配置
// 只包含 "*" 时允许所有来源，此时不允许携带凭证
func CORSConfig(origins []string) cors.Config {
	if len(origins) == 1 && origins[0] == "*" {
		return cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    allowedHeaders,
			ExposeHeaders:   exposedHeaders,
			MaxAge:          12 * time.Hour,
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     allowedHeaders,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS 跨域请求的中间件
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(CORSConfig(origins))
}
