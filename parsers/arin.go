/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-07 11:15:00
 * @Description: whois.arin.net 后端 - IP 网段与自治系统号
 */
package parsers

import (
	"strings"

	"whoisrecord/record"
	"whoisrecord/types"
)

const KindARIN = "arin"

// ARIN 网段记录没有域名与名称服务器；组织段作为注册人，OrgTech/OrgAbuse 作为技术联系人
type ARIN struct {
	*record.Base
	sections []fields
	f        fields
}

func NewARIN(part types.Part) record.Backend {
	b := &ARIN{
		Base:     record.NewBase(KindARIN, part),
		sections: blocks(part.Body),
		f:        scan(part.Body),
	}

	b.NotSupported(record.PropDomain, record.PropAvailable, record.PropRegistered,
		record.PropExpiresOn, record.PropRegistrar, record.PropNameservers,
		record.PropAdminContacts, record.PropReferralURL)

	b.Supported(record.PropDisclaimer, func() (any, error) {
		return orNil(paragraph(b.Content(), "ARIN WHOIS data and services are subject to the Terms of Use")), nil
	})
	b.Supported(record.PropDomainID, func() (any, error) {
		return orNil(b.f.first("nethandle", "ashandle")), nil
	})
	b.Supported(record.PropStatus, func() (any, error) {
		if t := b.f.first("nettype"); t != "" {
			return []string{t}, nil
		}
		return []string{}, nil
	})
	b.Supported(record.PropCreatedOn, func() (any, error) {
		return timeValue(b.f.first("regdate"))
	})
	b.Supported(record.PropUpdatedOn, func() (any, error) {
		return timeValue(b.f.first("updated"))
	})
	b.Supported(record.PropRegistrantContacts, func() (any, error) {
		return b.organizations(), nil
	})
	b.Supported(record.PropTechnicalContacts, func() (any, error) {
		var out []types.Contact
		for _, prefix := range []string{"orgtech", "orgabuse", "orgnoc"} {
			for _, s := range b.sections {
				if !s.has(prefix + "handle") {
					continue
				}
				out = append(out, types.Contact{
					ID:    s.first(prefix + "handle"),
					Type:  types.ContactTechnical,
					Name:  s.first(prefix + "name"),
					Phone: s.first(prefix + "phone"),
					Email: s.first(prefix + "email"),
					URL:   s.first(prefix + "ref"),
				})
			}
		}
		return out, nil
	})
	b.Supported(record.PropReferralWhois, func() (any, error) {
		// ReferralServer: whois://whois.ripe.net
		ref := b.f.first("referralserver")
		if ref == "" {
			return nil, nil
		}
		ref = strings.TrimPrefix(ref, "whois://")
		ref = strings.TrimPrefix(ref, "rwhois://")
		return strings.ToLower(strings.TrimSuffix(ref, "/")), nil
	})

	b.Method(record.MethodResponseThrottled, func() (any, error) {
		return containsAny(b.Content(), "query rate limit exceeded"), nil
	})

	return b
}

func (b *ARIN) organizations() []types.Contact {
	var out []types.Contact
	for _, s := range b.sections {
		if !s.has("orgid") {
			continue
		}
		c := types.Contact{
			ID:           s.first("orgid"),
			Type:         types.ContactRegistrant,
			Name:         s.first("orgname"),
			Organization: s.first("orgname"),
			Address:      strings.Join(s.all("address"), "\n"),
			City:         s.first("city"),
			Province:     s.first("stateprov"),
			PostalCode:   s.first("postalcode"),
			CountryCode:  s.first("country"),
			URL:          s.first("ref"),
		}
		if t, err := parseTime(s.first("regdate")); err == nil {
			c.CreatedOn = &t
		}
		if t, err := parseTime(s.first("updated")); err == nil {
			c.UpdatedOn = &t
		}
		out = append(out, c)
	}
	return out
}
