/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-06 14:00:00
 * @Description: whois.iana.org 后端 - 顶级域委托信息与转介服务器
 */
package parsers

import (
	"strings"

	"whoisrecord/record"
	"whoisrecord/types"
)

const KindIANA = "iana"

// IANA whois.iana.org 的响应按空行分段：首段为 refer，其后是 domain、organisation、contact 段
type IANA struct {
	*record.Base
	sections []fields
	all      fields
}

func NewIANA(part types.Part) record.Backend {
	b := &IANA{
		Base:     record.NewBase(KindIANA, part),
		sections: blocks(part.Body),
		all:      scan(part.Body),
	}

	b.NotSupported(record.PropDisclaimer, record.PropDomainID, record.PropExpiresOn,
		record.PropRegistrar, record.PropRegistrantContacts, record.PropReferralURL)

	b.Supported(record.PropDomain, func() (any, error) {
		return orNil(strings.ToLower(b.all.first("domain"))), nil
	})
	b.Supported(record.PropStatus, func() (any, error) {
		var status []string
		for _, s := range b.all.all("status") {
			status = append(status, strings.ToLower(s))
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
		return timeValue(b.all.first("created"))
	})
	b.Supported(record.PropUpdatedOn, func() (any, error) {
		return timeValue(b.all.first("changed"))
	})
	b.Supported(record.PropAdminContacts, func() (any, error) {
		return b.contacts("administrative", types.ContactAdministrative), nil
	})
	b.Supported(record.PropTechnicalContacts, func() (any, error) {
		return b.contacts("technical", types.ContactTechnical), nil
	})
	b.Supported(record.PropNameservers, func() (any, error) {
		return nameservers(b.all.all("nserver")), nil
	})
	b.Supported(record.PropReferralWhois, func() (any, error) {
		return orNil(strings.ToLower(b.all.first("refer", "whois"))), nil
	})

	return b
}

func (b *IANA) available() bool {
	return containsAny(b.Content(), "this query returned 0 objects")
}

// contacts 返回 "contact: <role>" 开头的段落
func (b *IANA) contacts(role string, typ types.ContactType) []types.Contact {
	var out []types.Contact
	for _, s := range b.sections {
		if !strings.EqualFold(s.first("contact"), role) {
			continue
		}
		address := s.all("address")
		c := types.Contact{
			Type:         typ,
			Name:         s.first("name"),
			Organization: s.first("organisation"),
			Phone:        s.first("phone"),
			Fax:          s.first("fax-no"),
			Email:        s.first("e-mail"),
		}
		if len(address) > 0 {
			// 最后一行地址为国家
			c.Address = strings.Join(address[:len(address)-1], "\n")
			c.Country = address[len(address)-1]
		}
		out = append(out, c)
	}
	return out
}
