/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 11:05:00
 * @Description: 后端契约 - 每个WHOIS服务器格式对应一个后端实现
 */
package record

import (
	"fmt"
	"sync"

	"whoisrecord/types"
)

// Backend 由单个 Part 构建，负责把该服务器的文本解析成属性
type Backend interface {
	// Kind 后端实现的标识，同类后端之间才可以比较
	Kind() string
	Part() types.Part

	Get(name string) Result
	Supports(name string) bool
	// Call 按名称调用元方法（response_* 以及后端自行声明的方法）
	Call(name string) Result

	ResponseIncomplete() bool
	ResponseThrottled() bool
	ResponseUnavailable() bool
	Contacts() ([]types.Contact, error)

	Unchanged(other Backend) (bool, error)
}

// Handler 属性或方法的计算函数
type Handler func() (any, error)

type declaration struct {
	state   State
	handler Handler
}

// Base 后端契约的默认实现，具体后端嵌入 *Base 并在构造时声明属性
type Base struct {
	kind string
	part types.Part

	properties map[string]declaration
	methods    map[string]Handler
	normalize  func(string) string

	mu    sync.Mutex
	cache map[string]Result
}

// NewBase 创建后端基础结构
func NewBase(kind string, part types.Part) *Base {
	return &Base{
		kind:       kind,
		part:       part,
		properties: make(map[string]declaration),
		methods:    make(map[string]Handler),
		cache:      make(map[string]Result),
	}
}

// Supported 声明支持的属性
func (b *Base) Supported(name string, fn Handler) {
	b.properties[name] = declaration{state: StateSupported, handler: fn}
}

// NotSupported 声明明确不支持的属性
func (b *Base) NotSupported(names ...string) {
	for _, name := range names {
		b.properties[name] = declaration{state: StateUnsupported}
	}
}

// Method 声明元方法，覆盖 response_* 或 contacts 的默认实现
func (b *Base) Method(name string, fn Handler) {
	b.methods[name] = fn
}

// Normalize 设置比较前对原始文本的规整函数，例如去掉查询时间戳
func (b *Base) Normalize(fn func(string) string) {
	b.normalize = fn
}

func (b *Base) Kind() string { return b.kind }

func (b *Base) Part() types.Part { return b.part }

// Content 原始响应文本
func (b *Base) Content() string { return b.part.Body }

// Get 查询属性，支持的属性结果会被缓存
func (b *Base) Get(name string) Result {
	decl, ok := b.properties[name]
	if !ok {
		return Undefined()
	}
	if decl.state != StateSupported {
		return Unsupported()
	}

	b.mu.Lock()
	r, ok := b.cache[name]
	b.mu.Unlock()
	if ok {
		return r
	}

	// 计算过程不持锁，处理函数之间可以互相调用 Get
	if decl.handler == nil {
		r = Value(nil)
	} else if v, err := decl.handler(); err != nil {
		r = Failed(fmt.Errorf("%s: %s: %w", b.kind, name, err))
	} else {
		r = Value(v)
	}
	b.mu.Lock()
	b.cache[name] = r
	b.mu.Unlock()
	return r
}

func (b *Base) Supports(name string) bool {
	decl, ok := b.properties[name]
	return ok && decl.state == StateSupported
}

// Call 调用元方法，未声明的内置方法使用默认实现
func (b *Base) Call(name string) Result {
	if fn, ok := b.methods[name]; ok {
		v, err := fn()
		if err != nil {
			return Failed(fmt.Errorf("%s: %s: %w", b.kind, name, err))
		}
		return Value(v)
	}
	switch name {
	case MethodResponseIncomplete, MethodResponseThrottled, MethodResponseUnavailable:
		return Value(false)
	case MethodContacts:
		contacts, err := b.defaultContacts()
		if err != nil {
			return Failed(err)
		}
		return Value(contacts)
	}
	return Undefined()
}

func (b *Base) probe(name string) bool {
	fn, ok := b.methods[name]
	if !ok {
		return false
	}
	v, err := fn()
	return err == nil && Truthy(v)
}

func (b *Base) ResponseIncomplete() bool { return b.probe(MethodResponseIncomplete) }

func (b *Base) ResponseThrottled() bool { return b.probe(MethodResponseThrottled) }

func (b *Base) ResponseUnavailable() bool { return b.probe(MethodResponseUnavailable) }

// Contacts 默认汇总已支持的 registrant/admin/technical 联系人
func (b *Base) Contacts() ([]types.Contact, error) {
	r := b.Call(MethodContacts)
	if r.Err() != nil {
		return nil, r.Err()
	}
	contacts, _ := r.Value().([]types.Contact)
	return contacts, nil
}

func (b *Base) defaultContacts() ([]types.Contact, error) {
	contacts := []types.Contact{}
	for _, name := range []string{PropRegistrantContacts, PropAdminContacts, PropTechnicalContacts} {
		if !b.Supports(name) {
			continue
		}
		v, err := b.Get(name).Unwrap()
		if err != nil {
			return nil, err
		}
		if list, ok := v.([]types.Contact); ok {
			contacts = append(contacts, list...)
		}
	}
	return contacts, nil
}

func (b *Base) normalized() string {
	if b.normalize == nil {
		return b.part.Body
	}
	return b.normalize(b.part.Body)
}

// normalizer 由 *Base 提供，嵌入 *Base 的后端自动满足
type normalizer interface {
	normalized() string
}

// Unchanged 默认实现：同类后端比较规整后的原始文本
func (b *Base) Unchanged(other Backend) (bool, error) {
	if other == nil || other.Kind() != b.kind {
		return false, fmt.Errorf("%w: cannot compare %s backend with %T", ErrTypeMismatch, b.kind, other)
	}
	if n, ok := other.(normalizer); ok {
		return b.normalized() == n.normalized(), nil
	}
	return b.part.Body == other.Part().Body, nil
}

// KindBlank 未知服务器使用的空后端
const KindBlank = "blank"

// Blank 未注册服务器的回退后端：不支持任何属性，所有查询都是 Undefined
type Blank struct {
	*Base
}

func NewBlank(part types.Part) Backend {
	return &Blank{Base: NewBase(KindBlank, part)}
}
