/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-10 16:09:00
 * @Description: 熔断器模式实现
 */
package services

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen 熔断器开启时拒绝请求
var ErrCircuitOpen = errors.New("circuit open")

// CircuitState 熔断器状态
type CircuitState int

const (
	StateClosed   CircuitState = iota // 关闭状态 - 正常工作
	StateOpen                         // 开启状态 - 熔断生效
	StateHalfOpen                     // 半开状态 - 尝试恢复
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker 实现熔断器模式
type CircuitBreaker struct {
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	lastFailureTime  time.Time
	mutex            sync.Mutex
	onStateChange    func(from, to CircuitState)
}

// BreakerStatus 熔断器状态快照
type BreakerStatus struct {
	State            string    `json:"state"`
	FailureCount     int       `json:"failureCount"`
	FailureThreshold int       `json:"failureThreshold"`
	ResetTimeout     string    `json:"resetTimeout"`
	LastFailureTime  time.Time `json:"lastFailureTime,omitempty"`
}

// NewCircuitBreaker 创建新的熔断器
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
	}
}

// OnStateChange 设置状态变化回调，回调在持锁状态下执行，不能再调用熔断器
func (cb *CircuitBreaker) OnStateChange(f func(from, to CircuitState)) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.onStateChange = f
}

// Execute 执行受熔断器保护的操作
func (cb *CircuitBreaker) Execute(operation func() error) error {
	if !cb.AllowRequest() {
		return ErrCircuitOpen
	}

	err := operation()
	cb.RecordResult(err == nil)
	return err
}

// AllowRequest 判断是否允许请求通过；开启状态超过重置时间后转为半开
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.lastFailureTime) <= cb.resetTimeout {
			return false
		}
		cb.transition(StateHalfOpen)
	}
	return true
}

// RecordResult 记录请求结果
func (cb *CircuitBreaker) RecordResult(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.failureCount = 0
		if cb.state == StateHalfOpen {
			cb.transition(StateClosed)
		}
		return
	}

	cb.lastFailureTime = time.Now()
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		// 半开状态下失败立即重新熔断
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	if cb.onStateChange != nil && from != to {
		cb.onStateChange(from, to)
	}
}

// State 当前状态
func (cb *CircuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Status 获取熔断器状态
func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return BreakerStatus{
		State:            cb.state.String(),
		FailureCount:     cb.failureCount,
		FailureThreshold: cb.failureThreshold,
		ResetTimeout:     cb.resetTimeout.String(),
		LastFailureTime:  cb.lastFailureTime,
	}
}
