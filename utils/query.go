/*
 * @Author: AsisYu
 * @Date: 2025-04-24
 * @Description: 查询对象工具 - 域名/IP/ASN 识别与规范化
 */
package utils

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// QueryKind 查询对象类别，决定首个WHOIS服务器
type QueryKind string

const (
	QueryDomain QueryKind = "domain"
	QueryIPv4   QueryKind = "ipv4"
	QueryIPv6   QueryKind = "ipv6"
	QueryASN    QueryKind = "asn"
)

// ErrInvalidQuery 无法识别的查询对象
var ErrInvalidQuery = errors.New("invalid query")

var (
	domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	asnRegex    = regexp.MustCompile(`^(?i)as(\d{1,10})$`)
)

// Query 规范化后的查询对象
type Query struct {
	Raw   string    `json:"raw"`
	Value string    `json:"value"`
	Kind  QueryKind `json:"kind"`
	// TLD 最后一级标签，向 IANA 查询顶级域服务器时使用
	TLD string `json:"tld,omitempty"`
	// Suffix 公共后缀，例如 co.uk
	Suffix string `json:"suffix,omitempty"`
}

// ParseQuery 识别并规范化查询对象；子域名会被归约为可注册域名
func ParseQuery(raw string) (Query, error) {
	q := Query{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return q, fmt.Errorf("%w: empty", ErrInvalidQuery)
	}

	if m := asnRegex.FindStringSubmatch(s); m != nil {
		q.Kind, q.Value = QueryASN, "AS"+m[1]
		return q, nil
	}
	if addr, err := netip.ParseAddr(s); err == nil {
		q.Value = addr.String()
		q.Kind = QueryIPv6
		if addr.Is4() {
			q.Kind = QueryIPv4
		}
		return q, nil
	}

	domain := strings.TrimSuffix(SanitizeDomain(s), ".")
	if !domainRegex.MatchString(domain) {
		return q, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	if suffix == domain {
		// 查询的是顶级域本身
		q.Kind, q.Value, q.Suffix = QueryDomain, domain, suffix
		q.TLD = domain[strings.LastIndex(domain, ".")+1:]
		return q, nil
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	q.Kind = QueryDomain
	q.Value = registrable
	q.Suffix = suffix
	q.TLD = registrable[strings.LastIndex(registrable, ".")+1:]
	return q, nil
}

// IsValidDomain 验证域名是否有效
func IsValidDomain(domain string) bool {
	q, err := ParseQuery(domain)
	return err == nil && q.Kind == QueryDomain
}

// SanitizeDomain 清理和标准化域名：去除协议前缀、端口和路径并转换为小写
func SanitizeDomain(domain string) string {
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "http://"), "https://")

	if idx := strings.Index(domain, "/"); idx != -1 {
		domain = domain[:idx]
	}
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return strings.ToLower(domain)
}
