/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-09 09:00:00
 * @Description: 后端注册 - 服务器标识到后端构造函数的映射
 */
package parsers

import (
	"whoisrecord/record"
)

// ICANNHosts 使用 ICANN 通用格式的注册商与厚注册局服务器
var ICANNHosts = []string{
	"whois.markmonitor.com",
	"whois.godaddy.com",
	"whois.namecheap.com",
	"whois.tucows.com",
	"whois.networksolutions.com",
	"whois.gandi.net",
	"whois.cloudflare.com",
	"whois.squarespace.domains",
	"whois.porkbun.com",
	"whois.dynadot.com",
	"whois.namesilo.com",
	"whois.enom.com",
	"whois.publicdomainregistry.com",
	"grs-whois.hichina.com",
	"whois.pir.org",
	"whois.nic.google",
}

// Backends 专用后端与服务器标识
var Backends = map[string]record.Factory{
	"whois.iana.org":         NewIANA,
	"whois.verisign-grs.com": NewVerisign,
	"whois.cnnic.cn":         NewCNNIC,
	"whois.arin.net":         NewARIN,
	HostWhoisXML:             NewWhoisXML,
}

// Install 把全部后端注册到 reg，服务器标识重复时返回错误
func Install(reg *record.Registry) error {
	for host, factory := range Backends {
		if err := reg.Register(host, factory); err != nil {
			return err
		}
	}
	for _, host := range ICANNHosts {
		if err := reg.Register(host, NewICANN); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry 返回已安装全部后端的注册表
func NewRegistry() (*record.Registry, error) {
	reg := record.NewRegistry()
	if err := Install(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
