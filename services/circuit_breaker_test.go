package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCircuitBreakerTransitions(t *testing.T) {
	cb := NewCircuitBreaker(2, 20*time.Millisecond)
	var changes []string
	cb.OnStateChange(func(from, to CircuitState) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	fail := func() error { return errors.New("fail") }
	cb.Execute(fail)
	cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}

	time.Sleep(30 * time.Millisecond)
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed", cb.State())
	}

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v", changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes = %v, want %v", changes, want)
		}
	}
}

func TestWorkerPoolRunAll(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	var n int32
	tasks := make([]func(), 20)
	for i := range tasks {
		tasks[i] = func() { atomic.AddInt32(&n, 1) }
	}
	if err := pool.RunAll(context.Background(), tasks...); err != nil {
		t.Fatal(err)
	}
	if n != 20 {
		t.Errorf("ran %d tasks, want 20", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := NewWorkerPool(1) // 未启动，队列满后无法提交
	for blocked.Submit(func() {}) {
	}
	if err := blocked.RunAll(ctx, func() {}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
