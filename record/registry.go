/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 11:30:00
 * @Description: 后端注册表 - 服务器标识到后端构造函数的映射
 */
package record

import (
	"fmt"
	"sort"
	"sync"

	"whoisrecord/pkg/logger"
	"whoisrecord/types"
)

// Factory 后端构造函数，由各后端在启动时注册
type Factory func(part types.Part) Backend

// Registry 服务器标识（原样使用）到后端构造函数的映射
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	fallback  Factory
}

// NewRegistry 创建注册表，未知服务器回退到 Blank
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		fallback:  NewBlank,
	}
}

// Register 注册后端，同一服务器只能注册一次
func (r *Registry) Register(host string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[host]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateHost, host)
	}
	r.factories[host] = f
	return nil
}

// MustRegister 与 Register 相同，重复注册时 panic
func (r *Registry) MustRegister(host string, f Factory) {
	if err := r.Register(host, f); err != nil {
		panic(err)
	}
}

// Resolve 查找服务器对应的构造函数
func (r *Registry) Resolve(host string) Factory {
	r.mu.RLock()
	f, ok := r.factories[host]
	r.mu.RUnlock()
	if !ok {
		logger.Module("Registry").Debugf("no backend registered for host %q, using blank", host)
		return r.fallback
	}
	return f
}

// Build 为单个 Part 构建后端
func (r *Registry) Build(part types.Part) Backend {
	return r.Resolve(part.Host)(part)
}

// Hosts 返回已注册的服务器列表（排序）
func (r *Registry) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hosts := make([]string, 0, len(r.factories))
	for h := range r.factories {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
