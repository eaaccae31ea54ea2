/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-06 15:30:00
 * @Description: whois.verisign-grs.com 后端 - .com/.net 瘦注册局
 */
package parsers

import (
	"strings"

	"whoisrecord/record"
	"whoisrecord/types"
)

const KindVerisign = "verisign"

// Verisign 瘦注册局只返回注册商与转介信息，不包含联系人
type Verisign struct {
	*record.Base
	f fields
}

func NewVerisign(part types.Part) record.Backend {
	b := &Verisign{
		Base: record.NewBase(KindVerisign, part),
		f:    scan(part.Body),
	}

	b.NotSupported(record.PropRegistrantContacts, record.PropAdminContacts, record.PropTechnicalContacts)

	b.Supported(record.PropDisclaimer, func() (any, error) {
		return orNil(paragraph(b.Content(), "TERMS OF USE:")), nil
	})
	b.Supported(record.PropDomain, func() (any, error) {
		return orNil(strings.ToLower(b.f.first("domain name"))), nil
	})
	b.Supported(record.PropDomainID, func() (any, error) {
		return orNil(b.f.first("registry domain id")), nil
	})
	b.Supported(record.PropStatus, func() (any, error) {
		var status []string
		for _, s := range b.f.all("domain status") {
			status = append(status, firstToken(s))
		}
		return status, nil
	})
	b.Supported(record.PropAvailable, func() (any, error) {
		return b.available(), nil
	})
	b.Supported(record.PropRegistered, func() (any, error) {
		return !b.available(), nil
	})
	b.Supported(record.PropCreatedOn, func() (any, error) {
		return timeValue(b.f.first("creation date"))
	})
	b.Supported(record.PropUpdatedOn, func() (any, error) {
		return timeValue(b.f.first("updated date"))
	})
	b.Supported(record.PropExpiresOn, func() (any, error) {
		return timeValue(b.f.first("registry expiry date"))
	})
	b.Supported(record.PropRegistrar, func() (any, error) {
		name := b.f.first("registrar")
		if name == "" {
			return nil, nil
		}
		return &types.Registrar{
			ID:   b.f.first("registrar iana id"),
			Name: name,
			URL:  b.f.first("registrar url"),
		}, nil
	})
	b.Supported(record.PropNameservers, func() (any, error) {
		return nameservers(b.f.all("name server")), nil
	})
	b.Supported(record.PropReferralWhois, func() (any, error) {
		return orNil(strings.ToLower(b.f.first("registrar whois server"))), nil
	})
	b.Supported(record.PropReferralURL, func() (any, error) {
		return orNil(b.f.first("registrar url")), nil
	})

	b.Method(record.MethodResponseThrottled, func() (any, error) {
		return containsAny(b.Content(), "exceeded the maximum allowable number of whois queries"), nil
	})
	b.Normalize(func(body string) string {
		return stripLines(body, ">>> last update of whois database")
	})

	return b
}

func (b *Verisign) available() bool {
	return containsAny(b.Content(), "no match for")
}
