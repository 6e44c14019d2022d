package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errUnreachable = errors.New("dial tcp 127.0.0.1:8080: connect: connection refused")

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func trip(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errUnreachable })
	}
}

// TestCircuitBreaker_ClosedState 正常请求保持关闭
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 连续失败后打开，不再调用实际函数
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)
	trip(cb, 3)

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenToClosed 超时后探测成功恢复
func TestCircuitBreaker_HalfOpenToClosed(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)
	trip(cb, 3)

	time.Sleep(150 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("半开状态探测请求期望成功，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态转为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenToOpen 探测失败立即转回打开
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)
	trip(cb, 3)

	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return errUnreachable })

	if cb.State() != StateOpen {
		t.Errorf("期望状态转回OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IsSuccessful 业务错误不计入失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errConflict := errors.New("这本书目前不可借阅")

	cb := NewCircuitBreaker("test", Config{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errConflict)
		},
	})

	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return errConflict })
		if !errors.Is(err, errConflict) {
			t.Fatalf("业务错误应原样返回，实际%v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("业务错误不应打开熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalFailures != 0 {
		t.Errorf("期望失败0次，实际%d次", counts.TotalFailures)
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	changes := make([]string, 0)

	cb := newTestBreaker(100 * time.Millisecond)
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	trip(cb, 3)
	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	expected := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(changes) != len(expected) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(expected), len(changes), changes)
	}
	for i, want := range expected {
		if changes[i] != want {
			t.Errorf("第%d次状态变化期望%s，实际%s", i+1, want, changes[i])
		}
	}
}

// TestCounts_FailureRate 失败率
func TestCounts_FailureRate(t *testing.T) {
	counts := Counts{Requests: 4, TotalFailures: 1}
	if rate := counts.FailureRate(); rate != 0.25 {
		t.Errorf("期望失败率0.25，实际%f", rate)
	}

	empty := Counts{}
	if rate := empty.FailureRate(); rate != 0 {
		t.Errorf("无请求时失败率应为0，实际%f", rate)
	}
}
