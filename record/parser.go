/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 14:10:00
 * @Description: 属性解析引擎 - 在多个Part的后端之间分发并合并结果
 */
package record

import (
	"fmt"
	"sync"

	"whoisrecord/types"
)

// Parser 记录的解析引擎，每个 Part 对应一个后端，顺序与 Part 一致。
//
// 三种合并策略互不相同：
//   - 普通属性：第一个声明支持的后端胜出
//   - contacts：只使用第一个后端
//   - response_* 判定：任一后端为真即为真
type Parser struct {
	record *Record

	once     sync.Once
	backends []Backend
}

func newParser(r *Record) *Parser {
	return &Parser{record: r}
}

// Record 返回引擎所属的记录
func (p *Parser) Record() *Record { return p.record }

// Backends 懒加载并缓存每个 Part 的后端
func (p *Parser) Backends() []Backend {
	p.once.Do(func() {
		parts := p.record.parts
		p.backends = make([]Backend, 0, len(parts))
		for _, part := range parts {
			p.backends = append(p.backends, p.record.registry.Build(part))
		}
	})
	return p.backends
}

// Property 返回第一个支持该属性的后端的值；没有后端支持时返回 nil
func (p *Parser) Property(name string) (any, error) {
	for _, b := range p.Backends() {
		if b.Supports(name) {
			return b.Get(name).Unwrap()
		}
	}
	return nil, nil
}

// PropertySupported 任一后端支持即为真
func (p *Parser) PropertySupported(name string) bool {
	for _, b := range p.Backends() {
		if b.Supports(name) {
			return true
		}
	}
	return false
}

// Has 属性被支持且值非空
func (p *Parser) Has(name string) (bool, error) {
	if !p.PropertySupported(name) {
		return false, nil
	}
	v, err := p.Property(name)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// Support 返回每个后端对该属性的声明状态，顺序与 Part 一致
func (p *Parser) Support(name string) []State {
	backends := p.Backends()
	states := make([]State, len(backends))
	for i, b := range backends {
		if b.Supports(name) {
			states[i] = StateSupported
			continue
		}
		states[i] = b.Get(name).State()
	}
	return states
}

func (p *Parser) ResponseIncomplete() bool {
	return p.any(Backend.ResponseIncomplete)
}

func (p *Parser) ResponseThrottled() bool {
	return p.any(Backend.ResponseThrottled)
}

func (p *Parser) ResponseUnavailable() bool {
	return p.any(Backend.ResponseUnavailable)
}

func (p *Parser) any(probe func(Backend) bool) bool {
	for _, b := range p.Backends() {
		if probe(b) {
			return true
		}
	}
	return false
}

// Contacts 只取第一个后端的联系人，不做合并
func (p *Parser) Contacts() ([]types.Contact, error) {
	backends := p.Backends()
	if len(backends) == 0 {
		return []types.Contact{}, nil
	}
	return backends[0].Contacts()
}

// Call 按名称调用元方法。内置方法保持各自的合并策略，
// 运行时新注册的方法取第一个声明了它的后端的结果。
func (p *Parser) Call(name string) (any, error) {
	switch name {
	case MethodContacts:
		return p.Contacts()
	case MethodResponseIncomplete:
		return p.ResponseIncomplete(), nil
	case MethodResponseThrottled:
		return p.ResponseThrottled(), nil
	case MethodResponseUnavailable:
		return p.ResponseUnavailable(), nil
	}
	for _, b := range p.Backends() {
		if r := b.Call(name); r.State() != StateUndefined {
			return r.Unwrap()
		}
	}
	return nil, nil
}

// Unchanged 逐位置比较后端。数量或类型不一致视为已变化，不是错误
func (p *Parser) Unchanged(other any) (bool, error) {
	o, ok := other.(*Parser)
	if !ok || o == nil {
		return false, fmt.Errorf("%w: cannot compare parser with %T", ErrTypeMismatch, other)
	}
	if o == p {
		return true, nil
	}

	mine, theirs := p.Backends(), o.Backends()
	if len(mine) != len(theirs) {
		return false, nil
	}
	for i := range mine {
		if mine[i].Kind() != theirs[i].Kind() {
			return false, nil
		}
	}
	for i := range mine {
		same, err := mine[i].Unchanged(theirs[i])
		if err != nil {
			return false, err
		}
		if !same {
			return false, nil
		}
	}
	return true, nil
}

// Properties 按目录顺序计算全部属性
func (p *Parser) Properties() (Snapshot, error) {
	names := p.record.catalog.Properties()
	snapshot := make(Snapshot, 0, len(names))
	for _, name := range names {
		v, err := p.Property(name)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, Field{Name: name, Value: v})
	}
	return snapshot, nil
}
