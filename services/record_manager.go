/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-11 10:00:00
 * @Description: 记录管理器 - 提供商选择、熔断、原始响应缓存与记录构建
 */
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/multierr"

	"whoisrecord/pkg/logger"
	"whoisrecord/providers"
	"whoisrecord/record"
	"whoisrecord/types"
	"whoisrecord/utils"
)

const (
	// 连续失败次数达到该值后暂时禁用提供商
	maxProviderErrors = 2
	// 禁用后重新启用的等待时间
	providerCooldown = 5 * time.Minute
)

var (
	// ErrNoProviders 没有可用的提供商
	ErrNoProviders = errors.New("no whois provider available")
	// ErrAllProvidersFailed 所有提供商都失败
	ErrAllProvidersFailed = errors.New("all whois providers failed")
	// ErrThrottled 提供商返回了限流响应
	ErrThrottled = errors.New("response throttled")
)

type providerStatus struct {
	count       int       // 调用次数
	lastUsed    time.Time // 上次使用时间
	errorCount  int       // 连续错误次数
	isAvailable bool      // 是否可用
}

// ProviderStatus 对外展示的提供商状态
type ProviderStatus struct {
	Available  bool          `json:"available"`
	ErrorCount int           `json:"errorCount"`
	CallCount  int           `json:"callCount"`
	LastUsed   time.Time     `json:"lastUsed"`
	Breaker    BreakerStatus `json:"breaker"`
}

// LookupResult 一次查询得到的记录及来源
type LookupResult struct {
	Query    utils.Query
	Record   *record.Record
	Provider string
	Cached   bool
	CachedAt time.Time
}

// RecordManager 管理提供商并把原始响应构建为记录
type RecordManager struct {
	registry *record.Registry
	catalog  *record.Catalog
	cache    *PartCache

	mu        sync.Mutex
	providers []providers.Provider
	status    map[string]*providerStatus
	breakers  map[string]*CircuitBreaker
}

// NewRecordManager cache 为 nil 时不使用缓存
func NewRecordManager(registry *record.Registry, catalog *record.Catalog, cache *PartCache) *RecordManager {
	return &RecordManager{
		registry: registry,
		catalog:  catalog,
		cache:    cache,
		status:   make(map[string]*providerStatus),
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (m *RecordManager) AddProvider(provider providers.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers = append(m.providers, provider)

	// 随机的初始使用次数与上次使用时间，避免启动时总是选择同一个提供商
	initialCountOffset := rand.Intn(2)
	timeOffset := time.Duration(rand.Intn(600)) * time.Second
	m.status[provider.Name()] = &providerStatus{
		isAvailable: true,
		count:       initialCountOffset,
		lastUsed:    time.Now().Add(-timeOffset),
	}

	name := provider.Name()
	breaker := NewCircuitBreaker(5, time.Minute)
	breaker.OnStateChange(func(from, to CircuitState) {
		logger.Module("RecordManager").Warnf("provider %s breaker %s -> %s", name, from, to)
	})
	m.breakers[name] = breaker

	logger.Module("RecordManager").Infof("provider added: %s (count offset=%d, last used -%v)",
		name, initialCountOffset, timeOffset)
}

// Registry 记录构建使用的后端注册表
func (m *RecordManager) Registry() *record.Registry { return m.registry }

// Catalog 记录构建使用的属性目录
func (m *RecordManager) Catalog() *record.Catalog { return m.catalog }

// Build 用管理器的注册表和目录构建记录
func (m *RecordManager) Build(server *types.Server, parts []types.Part) *record.Record {
	return record.New(server, parts, record.WithRegistry(m.registry), record.WithCatalog(m.catalog))
}

// candidates 按得分排序的可用提供商，得分越低越优先
func (m *RecordManager) candidates() []providers.Provider {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	type scored struct {
		p     providers.Provider
		score float64
	}
	var list []scored
	for _, p := range m.providers {
		status := m.status[p.Name()]
		if !status.isAvailable {
			if now.Sub(status.lastUsed) <= providerCooldown {
				continue
			}
			status.isAvailable = true
			status.errorCount = 0
			logger.Module("RecordManager").Infof("provider re-enabled: %s", p.Name())
		}

		usageWeight := float64(status.count) * 10.0
		errorWeight := float64(status.errorCount) * 20.0
		timeWeight := -now.Sub(status.lastUsed).Minutes() * 5.0
		list = append(list, scored{p, usageWeight + errorWeight + timeWeight})
	}

	// 插入排序，提供商数量很少
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].score < list[j-1].score; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	out := make([]providers.Provider, len(list))
	for i, s := range list {
		out[i] = s.p
	}
	return out
}

func (m *RecordManager) record(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status[name]
	status.lastUsed = time.Now()
	status.count++
	if err == nil {
		status.errorCount = 0
		return
	}
	status.errorCount++
	if status.errorCount >= maxProviderErrors {
		status.isAvailable = false
		logger.Module("RecordManager").Warnf("provider %s temporarily disabled", name)
	}
}

// Lookup 先查缓存，再按得分依次尝试提供商，返回第一个非限流响应构建的记录
func (m *RecordManager) Lookup(ctx context.Context, q utils.Query) (*LookupResult, error) {
	log := logger.FromContext(ctx, "RecordManager")

	if m.cache != nil {
		entry, err := m.cache.Get(ctx, q)
		if err != nil {
			log.Warnf("cache read failed for %s: %v", q.Value, err)
		} else if entry != nil && entry.Response != nil {
			log.Debugf("cache hit: %s", q.Value)
			return &LookupResult{
				Query:    q,
				Record:   m.Build(entry.Response.Server, entry.Response.Parts),
				Provider: entry.Provider,
				Cached:   true,
				CachedAt: entry.CachedAt,
			}, nil
		}
	}

	candidates := m.candidates()
	if len(candidates) == 0 {
		return nil, ErrNoProviders
	}

	var errs error
	for _, p := range candidates {
		rec, err := m.fetch(ctx, p, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnf("provider %s failed for %s: %v", p.Name(), q.Value, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		log.Infof("lookup %s answered by %s (%d parts)", q.Value, p.Name(), len(rec.Parts()))
		result := &LookupResult{Query: q, Record: rec, Provider: p.Name()}
		m.store(ctx, result)
		return result, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, errs)
}

// fetch 单个提供商的查询；不支持该查询或未配置不计入失败
func (m *RecordManager) fetch(ctx context.Context, p providers.Provider, q utils.Query) (*record.Record, error) {
	m.mu.Lock()
	breaker := m.breakers[p.Name()]
	m.mu.Unlock()

	if !breaker.AllowRequest() {
		return nil, ErrCircuitOpen
	}

	resp, err := p.Fetch(ctx, q)
	if errors.Is(err, providers.ErrUnsupportedQuery) || errors.Is(err, providers.ErrNotConfigured) {
		return nil, err
	}
	// 调用方取消或超时不是提供商的错误
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	if err == nil && len(resp.Parts) == 0 {
		err = errors.New("empty response")
	}

	var rec *record.Record
	if err == nil {
		rec = m.Build(resp.Server, resp.Parts)
		if rec.ResponseThrottled() {
			err = ErrThrottled
		}
	}

	breaker.RecordResult(err == nil)
	m.record(p.Name(), err)
	return rec, err
}

func (m *RecordManager) store(ctx context.Context, result *LookupResult) {
	if m.cache == nil || result.Record.ResponseIncomplete() || result.Record.ResponseUnavailable() {
		return
	}
	expiresOn, _ := result.Record.ExpiresOn()
	entry := &CachedParts{
		Provider: result.Provider,
		Response: &providers.Response{Server: result.Record.Server(), Parts: result.Record.Parts()},
		CachedAt: time.Now().UTC(),
	}
	if err := m.cache.Set(ctx, result.Query, entry, expiresOn); err != nil {
		logger.FromContext(ctx, "RecordManager").Warnf("cache write failed for %s: %v", result.Query.Value, err)
	}
}

// LookupAll 在工作池中并发查询，结果与输入顺序一致；任一查询失败时返回合并的错误
func (m *RecordManager) LookupAll(ctx context.Context, pool *WorkerPool, queries []utils.Query) ([]*LookupResult, error) {
	results := make([]*LookupResult, len(queries))
	errs := make([]error, len(queries))

	tasks := make([]func(), len(queries))
	for i, q := range queries {
		i, q := i, q
		tasks[i] = func() {
			results[i], errs[i] = m.Lookup(ctx, q)
		}
	}
	if err := pool.RunAll(ctx, tasks...); err != nil {
		return nil, err
	}
	return results, multierr.Combine(errs...)
}

// ProvidersStatus 各提供商的状态
func (m *RecordManager) ProvidersStatus() map[string]ProviderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]ProviderStatus, len(m.providers))
	for _, p := range m.providers {
		s := m.status[p.Name()]
		out[p.Name()] = ProviderStatus{
			Available:  s.isAvailable,
			ErrorCount: s.errorCount,
			CallCount:  s.count,
			LastUsed:   s.lastUsed.UTC(),
			Breaker:    m.breakers[p.Name()].Status(),
		}
	}
	return out
}

// OverallStatus up / degraded / down
func (m *RecordManager) OverallStatus() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	availableCount := 0
	for _, p := range m.providers {
		if m.status[p.Name()].isAvailable {
			availableCount++
		}
	}

	switch {
	case availableCount == 0:
		return "down"
	case availableCount < len(m.providers):
		return "degraded"
	default:
		return "up"
	}
}
