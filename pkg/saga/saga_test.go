package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestSaga_Execute_Success 所有步骤成功
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga("signup", 5*time.Second, zap.NewNop())
	s.AddStep("创建身份",
		func(ctx context.Context) error {
			executed = append(executed, "创建身份")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除身份")
			return nil
		},
	)
	s.AddStep("写入用户镜像",
		func(ctx context.Context) error {
			executed = append(executed, "写入用户镜像")
			return nil
		},
		nil,
	)

	if err := s.Execute(context.Background()); err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	if len(executed) != 2 || executed[0] != "创建身份" || executed[1] != "写入用户镜像" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 第二步失败触发第一步的补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)
	mirrorErr := errors.New("duplicate entry")

	s := NewSaga("signup", 5*time.Second, zap.NewNop())
	s.AddStep("创建身份",
		func(ctx context.Context) error {
			executed = append(executed, "创建身份")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除身份")
			return nil
		},
	)
	s.AddStep("写入用户镜像",
		func(ctx context.Context) error {
			return mirrorErr
		},
		func(ctx context.Context) error {
			executed = append(executed, "不应执行")
			return nil
		},
	)

	err := s.Execute(context.Background())
	if !errors.Is(err, mirrorErr) {
		t.Fatalf("期望返回原始错误，实际: %v", err)
	}

	expected := []string{"创建身份", "删除身份"}
	if len(executed) != len(expected) {
		t.Fatalf("期望%v，实际%v", expected, executed)
	}
	for i := range expected {
		if executed[i] != expected[i] {
			t.Errorf("第%d步期望%s，实际%s", i, expected[i], executed[i])
		}
	}
}

// TestSaga_CompensateContinuesAfterError 补偿失败不影响前面步骤的补偿
func TestSaga_CompensateContinuesAfterError(t *testing.T) {
	compensated := make([]string, 0)

	s := NewSaga("test", time.Second, nil)
	s.AddStep("A", func(ctx context.Context) error { return nil }, func(ctx context.Context) error {
		compensated = append(compensated, "A")
		return nil
	})
	s.AddStep("B", func(ctx context.Context) error { return nil }, func(ctx context.Context) error {
		compensated = append(compensated, "B")
		return errors.New("补偿B失败")
	})
	s.AddStep("C", func(ctx context.Context) error { return errors.New("C失败") }, nil)

	if err := s.Execute(context.Background()); err == nil {
		t.Fatal("期望返回错误")
	}

	if len(compensated) != 2 || compensated[0] != "B" || compensated[1] != "A" {
		t.Errorf("补偿顺序错误: %v", compensated)
	}
}

// TestSaga_Execute_Timeout 超时后不再执行后续步骤
func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false
	secondRan := false

	s := NewSaga("test", 50*time.Millisecond, zap.NewNop())
	s.AddStep("慢步骤",
		func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		},
		func(ctx context.Context) error {
			if ctx.Err() != nil {
				t.Error("补偿时Context不应已取消")
			}
			compensated = true
			return nil
		},
	)
	s.AddStep("后续步骤",
		func(ctx context.Context) error {
			secondRan = true
			return nil
		},
		nil,
	)

	err := s.Execute(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("期望超时错误，实际: %v", err)
	}
	if secondRan {
		t.Error("超时后不应继续执行")
	}
	if !compensated {
		t.Error("超时后应补偿已完成的步骤")
	}
}
