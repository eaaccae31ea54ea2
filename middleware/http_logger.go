/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-12-30
 * @Description: HTTP访问日志中间件 - 使用结构化日志
 */

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"whoisrecord/pkg/logger"
)

// ProviderKey handler 写入的应答提供商，访问日志会带上
const ProviderKey = "provider"

// HTTPLogger 记录HTTP请求的结构化日志，skipPaths 中的路径只在出错时记录
func HTTPLogger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		if _, ok := skip[path]; ok && statusCode < 400 {
			return
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", statusCode,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"user_agent", c.Request.UserAgent(),
		}
		if query != "" {
			fields = append(fields, "query", query)
		}
		if provider := c.GetString(ProviderKey); provider != "" {
			fields = append(fields, "provider", provider)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		log := logger.WithRequest(c, "HTTP").With(fields...)
		const message = "HTTP request completed"
		switch {
		case statusCode >= 500:
			log.Errorw(message)
		case statusCode >= 400:
			log.Warnw(message)
		default:
			log.Infow(message)
		}
	}
}
