/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-28 10:26:00
 * @Description: 请求大小限制中间件
 */
package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"whoisrecord/utils"
)

// SizeLimitConfig 请求大小限制配置
type SizeLimitConfig struct {
	Limit           int64    // 请求体大小限制（字节）
	Message         string   // 超过限制时返回的错误消息
	ExcludedMethods []string // 跳过检查的HTTP方法
}

// DefaultSizeLimitConfig 比较接口携带原始响应文本，默认1MB
func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		Limit:           1024 * 1024,
		Message:         "请求体过大",
		ExcludedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodDelete},
	}
}

// SizeLimitWithConfig 带配置的大小限制中间件
func SizeLimitWithConfig(config SizeLimitConfig) gin.HandlerFunc {
	excluded := make(map[string]struct{}, len(config.ExcludedMethods))
	for _, m := range config.ExcludedMethods {
		excluded[m] = struct{}{}
	}
	tooLarge := func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "REQUEST_ENTITY_TOO_LARGE",
			fmt.Sprintf("%s，最大允许大小为 %d 字节", config.Message, config.Limit))
		c.Abort()
	}

	return func(c *gin.Context) {
		if _, ok := excluded[c.Request.Method]; ok || c.Request.Body == nil {
			c.Next()
			return
		}

		contentLength := c.Request.ContentLength
		if contentLength > config.Limit {
			tooLarge(c)
			return
		}

		// 未指定Content-Length时读取最多 Limit+1 字节判断
		if contentLength == -1 {
			buffer := &bytes.Buffer{}
			n, err := buffer.ReadFrom(io.LimitReader(c.Request.Body, config.Limit+1))
			if err != nil {
				utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST_BODY", "无法读取请求体")
				c.Abort()
				return
			}
			if n > config.Limit {
				tooLarge(c)
				return
			}
			c.Request.Body = io.NopCloser(buffer)
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.Limit)
		c.Next()
	}
}
