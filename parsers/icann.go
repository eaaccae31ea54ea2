/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-08 10:00:00
 * @Description: ICANN 通用注册商格式后端 - 基于 likexian/whois-parser
 */
package parsers

import (
	"errors"
	"strings"
	"sync"
	"time"

	whoisparser "github.com/likexian/whois-parser"

	"whoisrecord/record"
	"whoisrecord/types"
)

const KindICANN = "icann"

// ICANN 遵循 2013 RAA 输出格式的注册商/厚注册局响应
type ICANN struct {
	*record.Base

	once sync.Once
	info whoisparser.WhoisInfo
	err  error
}

func NewICANN(part types.Part) record.Backend {
	b := &ICANN{Base: record.NewBase(KindICANN, part)}

	b.Supported(record.PropDisclaimer, func() (any, error) {
		for _, marker := range []string{"TERMS OF USE:", "The data in this whois database", "The Data in"} {
			if p := paragraph(b.Content(), marker); p != "" {
				return p, nil
			}
		}
		return nil, nil
	})
	b.Supported(record.PropDomain, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return nil, err
		}
		return orNil(strings.ToLower(d.Domain)), nil
	})
	b.Supported(record.PropDomainID, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return nil, err
		}
		return orNil(d.ID), nil
	})
	b.Supported(record.PropStatus, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return []string{}, err
		}
		status := make([]string, 0, len(d.Status))
		for _, s := range d.Status {
			status = append(status, firstToken(s))
		}
		return status, nil
	})
	b.Supported(record.PropAvailable, func() (any, error) {
		return b.available()
	})
	b.Supported(record.PropRegistered, func() (any, error) {
		available, err := b.available()
		if err != nil {
			return nil, err
		}
		return !available, nil
	})
	b.Supported(record.PropCreatedOn, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return nil, err
		}
		return dateOf(d.CreatedDateInTime, d.CreatedDate)
	})
	b.Supported(record.PropUpdatedOn, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return nil, err
		}
		return dateOf(d.UpdatedDateInTime, d.UpdatedDate)
	})
	b.Supported(record.PropExpiresOn, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return nil, err
		}
		return dateOf(d.ExpirationDateInTime, d.ExpirationDate)
	})
	b.Supported(record.PropRegistrar, func() (any, error) {
		info, err := b.parsed()
		if err != nil || info.Registrar == nil {
			return nil, err
		}
		r := info.Registrar
		return &types.Registrar{
			ID:           r.ID,
			Name:         r.Name,
			Organization: r.Organization,
			URL:          r.ReferralURL,
		}, nil
	})
	b.Supported(record.PropRegistrantContacts, func() (any, error) {
		info, err := b.parsed()
		return contactList(info.Registrant, types.ContactRegistrant), err
	})
	b.Supported(record.PropAdminContacts, func() (any, error) {
		info, err := b.parsed()
		return contactList(info.Administrative, types.ContactAdministrative), err
	})
	b.Supported(record.PropTechnicalContacts, func() (any, error) {
		info, err := b.parsed()
		return contactList(info.Technical, types.ContactTechnical), err
	})
	b.Supported(record.PropNameservers, func() (any, error) {
		d, err := b.domain()
		if d == nil || err != nil {
			return []types.Nameserver{}, err
		}
		return nameservers(d.NameServers), nil
	})
	// 注册商响应已是转介链末端
	b.NotSupported(record.PropReferralWhois, record.PropReferralURL)

	b.Method(record.MethodResponseThrottled, func() (any, error) {
		_, err := b.parse()
		return errors.Is(err, whoisparser.ErrDomainLimitExceed), nil
	})
	b.Method(record.MethodResponseIncomplete, func() (any, error) {
		_, err := b.parse()
		return errors.Is(err, whoisparser.ErrDomainDataInvalid), nil
	})
	b.Normalize(func(body string) string {
		return stripLines(body, ">>> last update of whois database", ">>> last update of whois db")
	})

	return b
}

func (b *ICANN) parse() (whoisparser.WhoisInfo, error) {
	b.once.Do(func() {
		b.info, b.err = whoisparser.Parse(b.Content())
	})
	return b.info, b.err
}

func (b *ICANN) available() (bool, error) {
	_, err := b.parse()
	if errors.Is(err, whoisparser.ErrNotFoundDomain) {
		return true, nil
	}
	return false, err
}

// parsed 未注册的域名不是错误，返回空结果
func (b *ICANN) parsed() (whoisparser.WhoisInfo, error) {
	info, err := b.parse()
	if errors.Is(err, whoisparser.ErrNotFoundDomain) {
		return whoisparser.WhoisInfo{}, nil
	}
	return info, err
}

func (b *ICANN) domain() (*whoisparser.Domain, error) {
	info, err := b.parsed()
	return info.Domain, err
}

func dateOf(parsed *time.Time, raw string) (any, error) {
	if parsed != nil {
		return parsed.UTC(), nil
	}
	return timeValue(raw)
}

func contactList(c *whoisparser.Contact, typ types.ContactType) []types.Contact {
	if c == nil {
		return []types.Contact{}
	}
	return []types.Contact{{
		ID:           c.ID,
		Type:         typ,
		Name:         c.Name,
		Organization: c.Organization,
		Address:      c.Street,
		City:         c.City,
		Province:     c.Province,
		PostalCode:   c.PostalCode,
		Country:      c.Country,
		Phone:        c.Phone,
		Fax:          c.Fax,
		Email:        c.Email,
		URL:          c.ReferralURL,
	}}
}
