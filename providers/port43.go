/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-01-19 10:15:00
 * @Description: 端口43 WHOIS 提供商 - IANA 发现权威服务器并跟随转介
 */
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"

	"whoisrecord/pkg/logger"
	"whoisrecord/record"
	"whoisrecord/types"
	"whoisrecord/utils"
)

const ianaHost = "whois.iana.org"

// whoisClient 单次原始查询，*whois.Client 满足该接口
type whoisClient interface {
	Whois(query string, servers ...string) (string, error)
}

// Port43Provider 先向 IANA 询问权威服务器，再沿 referral_whois 逐级查询。
// 转介服务器由已注册的后端解析得到，未注册格式的响应即为链条末端。
type Port43Provider struct {
	client   whoisClient
	registry *record.Registry
	maxHops  int
}

func NewPort43Provider(registry *record.Registry, timeout time.Duration) *Port43Provider {
	client := whois.NewClient().
		SetTimeout(timeout).
		SetDisableReferral(true).
		SetDisableStats(true)
	return &Port43Provider{
		client:   client,
		registry: registry,
		maxHops:  3,
	}
}

func (p *Port43Provider) Name() string {
	return "port43"
}

func (p *Port43Provider) Fetch(ctx context.Context, q utils.Query) (*Response, error) {
	log := logger.FromContext(ctx, "Port43")

	// 查询顶级域本身时 IANA 的响应就是结果
	if q.Kind == utils.QueryDomain && q.Value == q.Suffix {
		body, err := p.query(ctx, q.Value, ianaHost)
		if err != nil {
			return nil, err
		}
		return &Response{
			Server: &types.Server{Type: "tld", Allocation: ".", Host: ianaHost},
			Parts:  []types.Part{{Body: body, Host: ianaHost}},
		}, nil
	}

	server, err := p.discover(ctx, q)
	if err != nil {
		return nil, err
	}
	log.Debugf("authoritative server for %s: %s", q.Value, server.Host)

	var parts []types.Part
	visited := map[string]bool{}
	host := server.Host
	for hop := 0; hop < p.maxHops && host != "" && !visited[host]; hop++ {
		visited[host] = true
		body, err := p.query(ctx, q.Value, host)
		if err != nil {
			// 注册商服务器失败时保留已取得的注册局响应
			if len(parts) > 0 {
				log.Warnf("referral %s failed: %v", host, err)
				break
			}
			return nil, err
		}
		part := types.Part{Body: body, Host: host}
		parts = append(parts, part)
		host = p.referral(part)
	}

	return &Response{Server: server, Parts: parts}, nil
}

// discover 向 IANA 查询顶级域或地址段的权威服务器
func (p *Port43Provider) discover(ctx context.Context, q utils.Query) (*types.Server, error) {
	lookup := q.Value
	allocation := q.Value
	serverType := string(q.Kind)
	if q.Kind == utils.QueryDomain {
		lookup = q.TLD
		allocation = "." + q.TLD
		serverType = "tld"
	}

	body, err := p.query(ctx, lookup, ianaHost)
	if err != nil {
		return nil, fmt.Errorf("querying iana for %s: %w", lookup, err)
	}
	host := p.referral(types.Part{Body: body, Host: ianaHost})
	if host == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoWhoisServer, q.Value)
	}
	return &types.Server{Type: serverType, Allocation: allocation, Host: host}, nil
}

// referral 由对应后端解析转介服务器
func (p *Port43Provider) referral(part types.Part) string {
	v, err := p.registry.Build(part).Get(record.PropReferralWhois).Unwrap()
	if err != nil {
		return ""
	}
	host, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(host))
}

// query 单次端口43查询，ctx 取消时立即返回
func (p *Port43Provider) query(ctx context.Context, value, host string) (string, error) {
	type result struct {
		body string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := p.client.Whois(value, host)
		done <- result{body, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("whois %s@%s: %w", value, host, r.err)
		}
		return r.body, nil
	}
}
