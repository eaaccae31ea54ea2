/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 10:40:00
 * @Description: 属性/方法目录 - 记录上可动态分发的全部名称
 */
package record

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

// 默认属性名
const (
	PropDisclaimer         = "disclaimer"
	PropDomain             = "domain"
	PropDomainID           = "domain_id"
	PropStatus             = "status"
	PropAvailable          = "available"
	PropRegistered         = "registered"
	PropCreatedOn          = "created_on"
	PropUpdatedOn          = "updated_on"
	PropExpiresOn          = "expires_on"
	PropRegistrar          = "registrar"
	PropRegistrantContacts = "registrant_contacts"
	PropAdminContacts      = "admin_contacts"
	PropTechnicalContacts  = "technical_contacts"
	PropNameservers        = "nameservers"
	PropReferralWhois      = "referral_whois"
	PropReferralURL        = "referral_url"
)

// 默认方法名
const (
	MethodContacts            = "contacts"
	MethodResponseIncomplete  = "response_incomplete"
	MethodResponseThrottled   = "response_throttled"
	MethodResponseUnavailable = "response_unavailable"
)

var (
	defaultProperties = []string{
		PropDisclaimer, PropDomain, PropDomainID, PropStatus,
		PropAvailable, PropRegistered,
		PropCreatedOn, PropUpdatedOn, PropExpiresOn,
		PropRegistrar,
		PropRegistrantContacts, PropAdminContacts, PropTechnicalContacts,
		PropNameservers,
		PropReferralWhois, PropReferralURL,
	}
	defaultMethods = []string{
		MethodContacts,
		MethodResponseIncomplete, MethodResponseThrottled, MethodResponseUnavailable,
	}

	namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// MemberKind 目录成员类别
type MemberKind int

const (
	KindProperty MemberKind = iota + 1
	KindMethod
)

func (k MemberKind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Member 目录查找结果。Predicate 表示查询名带有 "?" 后缀
type Member struct {
	Name      string
	Base      string
	Kind      MemberKind
	Predicate bool
}

// catalogTable 目录快照，每次追加名称都会整体重建
type catalogTable struct {
	properties []string
	methods    []string
	members    map[string]Member
}

// Catalog 两个互不相交的有序名称集合：properties 与 methods。
// 可在运行时追加，已构建的 Record 立即可见。
type Catalog struct {
	mu    sync.Mutex
	table atomic.Pointer[catalogTable]
}

// NewCatalog 以给定名称创建目录
func NewCatalog(properties, methods []string) (*Catalog, error) {
	c := &Catalog{}
	c.table.Store(buildTable(nil, nil))
	if err := c.AddProperty(properties...); err != nil {
		return nil, err
	}
	if err := c.AddMethod(methods...); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog 返回一个包含标准属性与方法的新目录
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultProperties, defaultMethods)
	if err != nil {
		panic(err)
	}
	return c
}

// AddProperty 追加属性名，已存在的名称忽略
func (c *Catalog) AddProperty(names ...string) error {
	return c.add(KindProperty, names)
}

// AddMethod 追加方法名，已存在的名称忽略
func (c *Catalog) AddMethod(names ...string) error {
	return c.add(KindMethod, names)
}

func (c *Catalog) add(kind MemberKind, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.table.Load()
	properties := append([]string(nil), cur.properties...)
	methods := append([]string(nil), cur.methods...)
	changed := false

	for _, raw := range names {
		name := strings.TrimSuffix(strings.TrimSpace(raw), "?")
		if !namePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, raw)
		}
		if m, ok := cur.members[name]; ok {
			if m.Kind != kind {
				return fmt.Errorf("%w: %q", ErrNameConflict, name)
			}
			continue
		}
		if kind == KindProperty {
			properties = append(properties, name)
		} else {
			methods = append(methods, name)
		}
		cur = buildTable(properties, methods)
		changed = true
	}

	if changed {
		c.table.Store(cur)
	}
	return nil
}

func buildTable(properties, methods []string) *catalogTable {
	t := &catalogTable{
		properties: properties,
		methods:    methods,
		members:    make(map[string]Member, 2*(len(properties)+len(methods))),
	}
	for _, name := range properties {
		t.members[name] = Member{Name: name, Base: name, Kind: KindProperty}
		t.members[name+"?"] = Member{Name: name + "?", Base: name, Kind: KindProperty, Predicate: true}
	}
	for _, name := range methods {
		t.members[name] = Member{Name: name, Base: name, Kind: KindMethod}
		t.members[name+"?"] = Member{Name: name + "?", Base: name, Kind: KindMethod, Predicate: true}
	}
	return t
}

// Lookup 按名称查找成员，支持 "?" 形式
func (c *Catalog) Lookup(name string) (Member, bool) {
	m, ok := c.table.Load().members[name]
	return m, ok
}

// IsProperty 判断基础名称是否为属性
func (c *Catalog) IsProperty(name string) bool {
	m, ok := c.Lookup(name)
	return ok && !m.Predicate && m.Kind == KindProperty
}

// IsMethod 判断基础名称是否为方法
func (c *Catalog) IsMethod(name string) bool {
	m, ok := c.Lookup(name)
	return ok && !m.Predicate && m.Kind == KindMethod
}

// Properties 按注册顺序返回属性名副本
func (c *Catalog) Properties() []string {
	return append([]string(nil), c.table.Load().properties...)
}

// Methods 按注册顺序返回方法名副本
func (c *Catalog) Methods() []string {
	return append([]string(nil), c.table.Load().methods...)
}
