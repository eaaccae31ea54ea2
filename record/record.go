/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 15:00:00
 * @Description: WHOIS记录 - 持有Part列表，按目录名称分发属性查询
 */
package record

import (
	"strings"
	"sync"

	"whoisrecord/types"
)

// 记录本身提供的成员名，RespondsTo 对它们始终为真
var nativeMembers = map[string]struct{}{
	"server":                  {},
	"parts":                   {},
	"parser":                  {},
	"content":                 {},
	"properties":              {},
	"contacts":                {},
	"changed?":                {},
	"unchanged?":              {},
	"property_any_supported?": {},
}

// Record 一次查询得到的全部响应。
// 记录之间不做结构比较，只能通过 Changed/Unchanged 判定。
type Record struct {
	server   *types.Server
	parts    []types.Part
	registry *Registry
	catalog  *Catalog

	once   sync.Once
	parser *Parser
}

// Option 记录构造选项
type Option func(*Record)

// WithRegistry 指定后端注册表
func WithRegistry(reg *Registry) Option {
	return func(r *Record) { r.registry = reg }
}

// WithCatalog 指定属性目录
func WithCatalog(cat *Catalog) Option {
	return func(r *Record) { r.catalog = cat }
}

// New 创建记录，parts 顺序即查询/转介顺序。
// 未指定注册表时所有 Part 都使用 Blank 后端；未指定目录时使用默认目录。
func New(server *types.Server, parts []types.Part, opts ...Option) *Record {
	r := &Record{
		server: server,
		parts:  append([]types.Part(nil), parts...),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = NewRegistry()
	}
	if r.catalog == nil {
		r.catalog = DefaultCatalog()
	}
	return r
}

// Server 首个被查询的服务器，可能为 nil
func (r *Record) Server() *types.Server { return r.server }

// Parts 返回 Part 副本
func (r *Record) Parts() []types.Part {
	return append([]types.Part(nil), r.parts...)
}

func (r *Record) Catalog() *Catalog { return r.catalog }

// Parser 首次访问时构建解析引擎，之后始终返回同一实例
func (r *Record) Parser() *Parser {
	r.once.Do(func() {
		r.parser = newParser(r)
	})
	return r.parser
}

// Content 所有 Part 正文以换行拼接
func (r *Record) Content() string {
	bodies := make([]string, len(r.parts))
	for i, p := range r.parts {
		bodies[i] = p.Body
	}
	return strings.Join(bodies, "\n")
}

func (r *Record) String() string { return r.Content() }

// Call 按目录名称分发：
//  1. 带 "?" 的属性走 Has，带 "?" 的方法调用后转为布尔值
//  2. 属性走 Property
//  3. 方法走引擎的同名元方法
//  4. 其它名称返回 UnknownMemberError
func (r *Record) Call(name string) (any, error) {
	m, ok := r.catalog.Lookup(name)
	if !ok {
		return nil, &UnknownMemberError{Name: name}
	}

	switch {
	case m.Predicate && m.Kind == KindProperty:
		return r.Parser().Has(m.Base)
	case m.Predicate:
		v, err := r.Parser().Call(m.Base)
		if err != nil {
			return false, err
		}
		return Truthy(v), nil
	case m.Kind == KindProperty:
		return r.Parser().Property(m.Base)
	default:
		return r.Parser().Call(m.Base)
	}
}

// Bool 以布尔形式调用，name 可带或不带 "?"
func (r *Record) Bool(name string) (bool, error) {
	if !strings.HasSuffix(name, "?") {
		name += "?"
	}
	v, err := r.Call(name)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// RespondsTo 记录自身成员与目录中的全部名称（含 "?" 形式）返回真
func (r *Record) RespondsTo(name string) bool {
	if _, ok := nativeMembers[name]; ok {
		return true
	}
	_, ok := r.catalog.Lookup(name)
	return ok
}

// PropertyAnySupported 任一后端支持该属性
func (r *Record) PropertyAnySupported(name string) bool {
	return r.Parser().PropertySupported(name)
}

// Properties 按目录顺序返回全部属性
func (r *Record) Properties() (Snapshot, error) {
	return r.Parser().Properties()
}

// Unchanged 与另一条记录比较。同一实例直接返回真，不触发任何后端
func (r *Record) Unchanged(other any) (bool, error) {
	o, ok := other.(*Record)
	if !ok || o == nil {
		return false, &ArgumentError{Op: "unchanged", Got: other}
	}
	if o == r {
		return true, nil
	}
	return r.Parser().Unchanged(o.Parser())
}

// Changed Unchanged 的否定
func (r *Record) Changed(other any) (bool, error) {
	if o, ok := other.(*Record); !ok || o == nil {
		return false, &ArgumentError{Op: "changed", Got: other}
	}
	same, err := r.Unchanged(other)
	if err != nil {
		return false, err
	}
	return !same, nil
}
