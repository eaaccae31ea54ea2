package record

import (
	"fmt"
	"time"

	"whoisrecord/types"
)

// propertyAs 取属性并断言为具体类型，属性为空时返回零值
func propertyAs[T any](r *Record, name string) (T, error) {
	var zero T
	v, err := r.Parser().Property(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, name, v, zero)
	}
	return t, nil
}

func (r *Record) Disclaimer() (string, error) { return propertyAs[string](r, PropDisclaimer) }

func (r *Record) Domain() (string, error) { return propertyAs[string](r, PropDomain) }

func (r *Record) DomainID() (string, error) { return propertyAs[string](r, PropDomainID) }

func (r *Record) Status() ([]string, error) { return propertyAs[[]string](r, PropStatus) }

func (r *Record) Available() (bool, error) { return propertyAs[bool](r, PropAvailable) }

func (r *Record) Registered() (bool, error) { return propertyAs[bool](r, PropRegistered) }

func (r *Record) CreatedOn() (time.Time, error) { return propertyAs[time.Time](r, PropCreatedOn) }

func (r *Record) UpdatedOn() (time.Time, error) { return propertyAs[time.Time](r, PropUpdatedOn) }

func (r *Record) ExpiresOn() (time.Time, error) { return propertyAs[time.Time](r, PropExpiresOn) }

func (r *Record) Registrar() (*types.Registrar, error) {
	return propertyAs[*types.Registrar](r, PropRegistrar)
}

func (r *Record) RegistrantContacts() ([]types.Contact, error) {
	return propertyAs[[]types.Contact](r, PropRegistrantContacts)
}

func (r *Record) AdminContacts() ([]types.Contact, error) {
	return propertyAs[[]types.Contact](r, PropAdminContacts)
}

func (r *Record) TechnicalContacts() ([]types.Contact, error) {
	return propertyAs[[]types.Contact](r, PropTechnicalContacts)
}

func (r *Record) Nameservers() ([]types.Nameserver, error) {
	return propertyAs[[]types.Nameserver](r, PropNameservers)
}

func (r *Record) ReferralWhois() (string, error) { return propertyAs[string](r, PropReferralWhois) }

func (r *Record) ReferralURL() (string, error) { return propertyAs[string](r, PropReferralURL) }

// Contacts 第一个 Part 后端的联系人
func (r *Record) Contacts() ([]types.Contact, error) { return r.Parser().Contacts() }

func (r *Record) ResponseIncomplete() bool { return r.Parser().ResponseIncomplete() }

func (r *Record) ResponseThrottled() bool { return r.Parser().ResponseThrottled() }

func (r *Record) ResponseUnavailable() bool { return r.Parser().ResponseUnavailable() }
