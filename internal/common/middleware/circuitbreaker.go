package middleware

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitBreakerState 熔断器状态
type CircuitBreakerState int

const (
	StateClosed   CircuitBreakerState = iota // 关闭状态（正常）
	StateOpen                                // 开启状态（熔断）
	StateHalfOpen                            // 半开状态（尝试恢复）
)

// ErrCircuitOpen 熔断打开期间的快速失败。
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker 熔断器。挂在报表读路径上：聚合查询连续超时/失败时
// 快速失败一段时间，避免慢查询堆积拖垮写路径共用的连接池。
type CircuitBreaker struct {
	name          string
	maxFailures   int           // 最大连续失败次数
	resetTimeout  time.Duration // 熔断后多久进入半开
	halfOpenMax   int           // 半开状态放行的探测请求数
	failures      int
	halfOpenCount int
	state         CircuitBreakerState
	lastFailTime  time.Time
	mu            sync.Mutex
}

// NewCircuitBreaker 创建熔断器。
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:         name,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		halfOpenMax:  3,
		state:        StateClosed,
	}
}

// Call 执行调用；熔断打开时直接返回 ErrCircuitOpen。
func (cb *CircuitBreaker) Call(ctx context.Context, fn func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		cb.record(err)
		return err
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailTime) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		// 冷却结束，进入半开，放少量探测流量
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.halfOpenMax {
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.state = StateClosed
		return
	}

	cb.failures++
	cb.lastFailTime = time.Now()
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
	}
}

// State 返回当前状态（监控用）。
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
