/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-01-17 23:47:06
 * @Description: 安全响应头中间件
 */
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityConfig 安全中间件配置
type SecurityConfig struct {
	FrameOptions       string
	ContentTypeOptions string
	ReferrerPolicy     string
	// HSTSMaxAge 为0时不发送HSTS
	HSTSMaxAge int
}

// DefaultSecurityConfig 纯JSON接口，不需要CSP
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions:       "DENY",
		ContentTypeOptions: "nosniff",
		ReferrerPolicy:     "no-referrer",
	}
}

// SecurityWithConfig 带配置的安全中间件
func SecurityWithConfig(config SecurityConfig) gin.HandlerFunc {
	hsts := ""
	if config.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(config.HSTSMaxAge) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", config.ContentTypeOptions)
		h.Set("X-Frame-Options", config.FrameOptions)
		h.Set("Referrer-Policy", config.ReferrerPolicy)
		h.Set("Cache-Control", "no-store")
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
