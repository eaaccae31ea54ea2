/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-07 09:40:00
 * @Description: whois.cnnic.cn 后端 - .cn 注册局
 */
package parsers

import (
	"strings"

	"whoisrecord/record"
	"whoisrecord/types"
)

const KindCNNIC = "cnnic"

type CNNIC struct {
	*record.Base
	f fields
}

// NewCNNIC CNNIC 响应没有免责声明、更新时间和管理/技术联系人
func NewCNNIC(part types.Part) record.Backend {
	b := &CNNIC{
		Base: record.NewBase(KindCNNIC, part),
		f:    scan(part.Body),
	}

	b.NotSupported(record.PropDisclaimer, record.PropUpdatedOn,
		record.PropAdminContacts, record.PropTechnicalContacts,
		record.PropReferralWhois, record.PropReferralURL)

	b.Supported(record.PropDomain, func() (any, error) {
		return orNil(strings.ToLower(b.f.first("domain name"))), nil
	})
	b.Supported(record.PropDomainID, func() (any, error) {
		return orNil(b.f.first("roid")), nil
	})
	b.Supported(record.PropStatus, func() (any, error) {
		return b.f.all("domain status"), nil
	})
	b.Supported(record.PropAvailable, func() (any, error) {
		return b.available(), nil
	})
	b.Supported(record.PropRegistered, func() (any, error) {
		return !b.available(), nil
	})
	b.Supported(record.PropCreatedOn, func() (any, error) {
		return timeValue(b.f.first("registration time"))
	})
	b.Supported(record.PropExpiresOn, func() (any, error) {
		return timeValue(b.f.first("expiration time"))
	})
	b.Supported(record.PropRegistrar, func() (any, error) {
		name := b.f.first("sponsoring registrar")
		if name == "" {
			return nil, nil
		}
		return &types.Registrar{Name: name}, nil
	})
	b.Supported(record.PropRegistrantContacts, func() (any, error) {
		name := b.f.first("registrant")
		if name == "" {
			return []types.Contact{}, nil
		}
		return []types.Contact{{
			ID:    b.f.first("registrant id"),
			Type:  types.ContactRegistrant,
			Name:  name,
			Email: b.f.first("registrant contact email"),
		}}, nil
	})
	b.Supported(record.PropNameservers, func() (any, error) {
		return nameservers(b.f.all("name server")), nil
	})

	b.Method(record.MethodResponseThrottled, func() (any, error) {
		return containsAny(b.Content(), "queried interval is too short", "exceeded the query limit"), nil
	})
	b.Method(record.MethodResponseUnavailable, func() (any, error) {
		return containsAny(b.Content(), "service is temporarily unavailable"), nil
	})

	return b
}

func (b *CNNIC) available() bool {
	return containsAny(b.Content(), "no matching record")
}
