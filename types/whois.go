/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-01-18 22:34:01
 * @Description: WHOIS记录类型定义
 */
package types

import "time"

// Part 单个WHOIS服务器的原始响应，Host为产生该响应的服务器标识
type Part struct {
	Body string `json:"body"`
	Host string `json:"host"`
}

// Server 首个被查询的WHOIS服务器
type Server struct {
	Type       string `json:"type"`
	Allocation string `json:"allocation"`
	Host       string `json:"host"`
}

// ContactType 联系人类别
type ContactType int

const (
	ContactRegistrant ContactType = iota + 1
	ContactAdministrative
	ContactTechnical
)

func (t ContactType) String() string {
	switch t {
	case ContactRegistrant:
		return "registrant"
	case ContactAdministrative:
		return "administrative"
	case ContactTechnical:
		return "technical"
	default:
		return "unknown"
	}
}

// MarshalText 让联系人类别在JSON中以名称输出
func (t ContactType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type Contact struct {
	ID           string      `json:"id,omitempty"`
	Type         ContactType `json:"type"`
	Name         string      `json:"name,omitempty"`
	Organization string      `json:"organization,omitempty"`
	Address      string      `json:"address,omitempty"`
	City         string      `json:"city,omitempty"`
	Province     string      `json:"province,omitempty"`
	PostalCode   string      `json:"postalCode,omitempty"`
	Country      string      `json:"country,omitempty"`
	CountryCode  string      `json:"countryCode,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Fax          string      `json:"fax,omitempty"`
	Email        string      `json:"email,omitempty"`
	URL          string      `json:"url,omitempty"`
	CreatedOn    *time.Time  `json:"createdOn,omitempty"`
	UpdatedOn    *time.Time  `json:"updatedOn,omitempty"`
}

type Registrar struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	URL          string `json:"url,omitempty"`
}

type Nameserver struct {
	Name string `json:"name"`
	IPv4 string `json:"ipv4,omitempty"`
	IPv6 string `json:"ipv6,omitempty"`
}
