/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-08 16:20:00
 * @Description: WhoisXML API JSON 响应后端
 */
package parsers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"whoisrecord/record"
	"whoisrecord/types"
)

const (
	KindWhoisXML = "whoisxml"
	// HostWhoisXML WhoisXML 提供方写入 Part 的服务器标识
	HostWhoisXML = "whoisxmlapi.com"
)

type whoisXMLContact struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Street1      string `json:"street1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	CountryCode  string `json:"countryCode"`
	Email        string `json:"email"`
	Telephone    string `json:"telephone"`
	Fax          string `json:"fax"`
}

type whoisXMLRegistry struct {
	DomainName  string `json:"domainName"`
	Status      string `json:"status"`
	CreatedDate string `json:"createdDate"`
	UpdatedDate string `json:"updatedDate"`
	ExpiresDate string `json:"expiresDate"`
	WhoisServer string `json:"whoisServer"`
	Disclaimer  string `json:"disclaimer"`
	NameServers struct {
		HostNames []string `json:"hostNames"`
	} `json:"nameServers"`
	Registrant whoisXMLContact `json:"registrant"`
}

type whoisXMLDocument struct {
	WhoisRecord *struct {
		DomainName      string           `json:"domainName"`
		RegistrarName   string           `json:"registrarName"`
		RegistrarIANAID ianaID           `json:"registrarIANAID"`
		CreatedDate     string           `json:"createdDate"`
		UpdatedDate     string           `json:"updatedDate"`
		ExpiresDate     string           `json:"expiresDate"`
		Status          string           `json:"status"`
		WhoisServer     string           `json:"whoisServer"`
		DataError       string           `json:"dataError"`
		Registrant      whoisXMLContact  `json:"registrant"`
		Administrative  whoisXMLContact  `json:"administrativeContact"`
		Technical       whoisXMLContact  `json:"technicalContact"`
		RegistryData    whoisXMLRegistry `json:"registryData"`
		NameServers     struct {
			HostNames []string `json:"hostNames"`
		} `json:"nameServers"`
	} `json:"WhoisRecord"`
	ErrorMessage *struct {
		ErrorCode string `json:"errorCode"`
		Msg       string `json:"msg"`
	} `json:"ErrorMessage"`
}

// WhoisXML 解析 WhoisXML API 的 JSON 输出，顶层字段为空时回退到 registryData
type WhoisXML struct {
	*record.Base

	once sync.Once
	doc  whoisXMLDocument
	err  error
}

func NewWhoisXML(part types.Part) record.Backend {
	b := &WhoisXML{Base: record.NewBase(KindWhoisXML, part)}

	b.NotSupported(record.PropReferralURL)

	b.Supported(record.PropDisclaimer, func() (any, error) {
		return b.str(func(d *whoisXMLDocument) string { return d.WhoisRecord.RegistryData.Disclaimer })
	})
	b.Supported(record.PropDomain, func() (any, error) {
		v, err := b.str(func(d *whoisXMLDocument) string {
			return pick(d.WhoisRecord.DomainName, d.WhoisRecord.RegistryData.DomainName)
		})
		if s, ok := v.(string); ok {
			return strings.ToLower(s), err
		}
		return v, err
	})
	b.NotSupported(record.PropDomainID)
	b.Supported(record.PropStatus, func() (any, error) {
		doc, err := b.decode()
		if err != nil || doc.WhoisRecord == nil {
			return []string{}, err
		}
		return strings.Fields(pick(doc.WhoisRecord.Status, doc.WhoisRecord.RegistryData.Status)), nil
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
		return b.date(func(d *whoisXMLDocument) string {
			return pick(d.WhoisRecord.CreatedDate, d.WhoisRecord.RegistryData.CreatedDate)
		})
	})
	b.Supported(record.PropUpdatedOn, func() (any, error) {
		return b.date(func(d *whoisXMLDocument) string {
			return pick(d.WhoisRecord.UpdatedDate, d.WhoisRecord.RegistryData.UpdatedDate)
		})
	})
	b.Supported(record.PropExpiresOn, func() (any, error) {
		return b.date(func(d *whoisXMLDocument) string {
			return pick(d.WhoisRecord.ExpiresDate, d.WhoisRecord.RegistryData.ExpiresDate)
		})
	})
	b.Supported(record.PropRegistrar, func() (any, error) {
		doc, err := b.decode()
		if err != nil || doc.WhoisRecord == nil || doc.WhoisRecord.RegistrarName == "" {
			return nil, err
		}
		return &types.Registrar{ID: string(doc.WhoisRecord.RegistrarIANAID), Name: doc.WhoisRecord.RegistrarName}, nil
	})
	b.Supported(record.PropRegistrantContacts, func() (any, error) {
		return b.contacts(types.ContactRegistrant)
	})
	b.Supported(record.PropAdminContacts, func() (any, error) {
		return b.contacts(types.ContactAdministrative)
	})
	b.Supported(record.PropTechnicalContacts, func() (any, error) {
		return b.contacts(types.ContactTechnical)
	})
	b.Supported(record.PropNameservers, func() (any, error) {
		doc, err := b.decode()
		if err != nil || doc.WhoisRecord == nil {
			return []types.Nameserver{}, err
		}
		hosts := doc.WhoisRecord.NameServers.HostNames
		if len(hosts) == 0 {
			hosts = doc.WhoisRecord.RegistryData.NameServers.HostNames
		}
		return nameservers(hosts), nil
	})
	b.Supported(record.PropReferralWhois, func() (any, error) {
		return b.str(func(d *whoisXMLDocument) string {
			return strings.ToLower(pick(d.WhoisRecord.WhoisServer, d.WhoisRecord.RegistryData.WhoisServer))
		})
	})

	b.Method(record.MethodResponseThrottled, func() (any, error) {
		doc, err := b.decode()
		return err == nil && doc.ErrorMessage != nil && containsAny(doc.ErrorMessage.Msg, "limit", "exceeded"), nil
	})
	b.Method(record.MethodResponseUnavailable, func() (any, error) {
		doc, err := b.decode()
		return err != nil || doc.ErrorMessage != nil, nil
	})

	return b
}

func (b *WhoisXML) decode() (*whoisXMLDocument, error) {
	b.once.Do(func() {
		if err := json.Unmarshal([]byte(b.Content()), &b.doc); err != nil {
			b.err = fmt.Errorf("decoding whoisxml document: %w", err)
		}
	})
	return &b.doc, b.err
}

func (b *WhoisXML) str(get func(*whoisXMLDocument) string) (any, error) {
	doc, err := b.decode()
	if err != nil || doc.WhoisRecord == nil {
		return nil, err
	}
	return orNil(get(doc)), nil
}

func (b *WhoisXML) date(get func(*whoisXMLDocument) string) (any, error) {
	doc, err := b.decode()
	if err != nil || doc.WhoisRecord == nil {
		return nil, err
	}
	return timeValue(get(doc))
}

func (b *WhoisXML) available() (bool, error) {
	doc, err := b.decode()
	if err != nil {
		return false, err
	}
	if doc.WhoisRecord == nil {
		return false, nil
	}
	return doc.WhoisRecord.DataError == "MISSING_WHOIS_DATA", nil
}

func (b *WhoisXML) contacts(typ types.ContactType) ([]types.Contact, error) {
	doc, err := b.decode()
	if err != nil || doc.WhoisRecord == nil {
		return []types.Contact{}, err
	}
	var c whoisXMLContact
	switch typ {
	case types.ContactRegistrant:
		c = doc.WhoisRecord.Registrant
		if c == (whoisXMLContact{}) {
			c = doc.WhoisRecord.RegistryData.Registrant
		}
	case types.ContactAdministrative:
		c = doc.WhoisRecord.Administrative
	case types.ContactTechnical:
		c = doc.WhoisRecord.Technical
	}
	if c == (whoisXMLContact{}) {
		return []types.Contact{}, nil
	}
	return []types.Contact{{
		Type:         typ,
		Name:         c.Name,
		Organization: c.Organization,
		Address:      c.Street1,
		City:         c.City,
		Province:     c.State,
		PostalCode:   c.PostalCode,
		Country:      c.Country,
		CountryCode:  c.CountryCode,
		Phone:        c.Telephone,
		Fax:          c.Fax,
		Email:        c.Email,
	}}, nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ianaID WhoisXML 偶尔把 IANA ID 输出为数字
type ianaID string

func (id *ianaID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	if _, err := strconv.Atoi(s); s != "" && err != nil {
		return fmt.Errorf("invalid registrar IANA id %q", s)
	}
	*id = ianaID(s)
	return nil
}
