/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-10 09:30:00
 * @Description: 提供商接口 - 获取一次查询的全部原始响应
 */
package providers

import (
	"context"
	"errors"

	"whoisrecord/types"
	"whoisrecord/utils"
)

var (
	// ErrUnsupportedQuery 提供商不处理该类查询对象
	ErrUnsupportedQuery = errors.New("query kind not supported by provider")
	// ErrNotConfigured 缺少API密钥等必要配置
	ErrNotConfigured = errors.New("provider not configured")
	// ErrNoWhoisServer 找不到权威服务器
	ErrNoWhoisServer = errors.New("no whois server found")
)

// Response 一次查询的原始结果，Parts 按查询顺序排列
type Response struct {
	Server *types.Server `json:"server,omitempty"`
	Parts  []types.Part  `json:"parts"`
}

// Provider 原始WHOIS数据来源
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q utils.Query) (*Response, error)
}
