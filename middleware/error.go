/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-03-31 04:10:00
 * @Description: 错误处理中间件
 */
package middleware

import (
	"github.com/gin-gonic/gin"

	"whoisrecord/pkg/logger"
	"whoisrecord/utils"
)

// ErrorHandler 处理器通过 c.Error 上报但未写响应的错误统一返回500
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithRequest(c, "HTTP").Errorf("panic: %v", rec)
				if !c.Writer.Written() {
					utils.ErrorResponse(c, 500, "INTERNAL_SERVER_ERROR", "服务器内部错误")
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			logger.WithRequest(c, "HTTP").Errorf("path=%s error=%v", c.Request.URL.Path, err)

			if !c.Writer.Written() {
				utils.ErrorResponse(c, 500, "INTERNAL_SERVER_ERROR", "服务器内部错误")
			}
		}
	}
}
