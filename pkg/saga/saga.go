// Package saga 按步骤执行、失败时逆序补偿
//
// 核心思想：
// 1. 把跨资源的操作拆成多个本地步骤
// 2. 每个步骤有对应的补偿操作
// 3. 某步失败时，按逆序执行已完成步骤的补偿
//
// 注册用例用它串起"身份服务创建账号"和"本地写入用户镜像"两步：
// 第二步失败时删除第一步创建的账号。
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/metrics"
)

// Step Saga中的一个步骤
// Compensate必须幂等，补偿阶段可能被重复触发
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可以为nil
}

// Saga 一次Saga执行
// 不可复用，每次请求新建一个
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	log      *zap.Logger
}

// NewSaga 创建Saga
//
// 示例：
//
//	s := saga.NewSaga("signup", 10*time.Second, log)
//	s.AddStep("创建身份", createIdentity, deleteIdentity)
//	s.AddStep("写入用户镜像", createMirror, nil)
//	err := s.Execute(ctx)
func NewSaga(name string, timeout time.Duration, log *zap.Logger) *Saga {
	if log == nil {
		log = zap.NewNop()
	}
	return &Saga{
		name:    name,
		steps:   make([]Step, 0, 2),
		timeout: timeout,
		log:     log,
	}
}

// AddStep 添加一个步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 顺序执行所有步骤
// 失败或超时时补偿已完成的步骤，返回的错误用%w包装了原始错误
func (s *Saga) Execute(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.record(start, err) }()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用新Context，避免补偿也因超时被取消
			s.compensate(context.WithoutCancel(ctx))
			return fmt.Errorf("saga[%s]超时: %w", s.name, ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行补偿，单个补偿失败只记日志，继续补偿前面的步骤
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if metrics.SagaCompensationsTotal != nil {
			metrics.IncCounter(metrics.SagaCompensationsTotal)
		}
		if err := step.Compensate(ctx); err != nil {
			s.log.Error("saga补偿失败",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
	s.executed = nil
}

func (s *Saga) record(start time.Time, err error) {
	if metrics.SagaExecutionsTotal == nil {
		return
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
	}
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": result})
	metrics.ObserveHistogram(metrics.SagaExecutionDuration, time.Since(start).Seconds())
}
