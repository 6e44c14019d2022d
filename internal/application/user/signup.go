package user

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/identity"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/saga"
	"github.com/xiebiao/library/pkg/tracing"
)

const (
	tracerName    = "library/user"
	signupTimeout = 10 * time.Second
)

// SignUpUseCase 注册用例
// 两步:身份服务创建账号 → 本地写入用户镜像
// 第二步失败时删除第一步创建的账号,不留下只注册了一半的用户
type SignUpUseCase struct {
	gateway identity.Gateway
	users   user.Repository
	log     *zap.Logger
}

// NewSignUpUseCase 创建注册用例
func NewSignUpUseCase(gateway identity.Gateway, users user.Repository, log *zap.Logger) *SignUpUseCase {
	return &SignUpUseCase{
		gateway: gateway,
		users:   users,
		log:     log,
	}
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string
	Password string
}

// SignUpResponse 注册响应,不返回密码
type SignUpResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Execute 执行注册
func (uc *SignUpUseCase) Execute(ctx context.Context, req SignUpRequest) (resp *SignUpResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SignUp")
	defer func() {
		recordSignup(err)
		tracing.EndSpan(span, err)
	}()

	var created *identity.Identity

	s := saga.NewSaga("signup", signupTimeout, uc.log)
	s.AddStep("创建身份",
		func(ctx context.Context) error {
			id, err := uc.gateway.SignUp(ctx, req.Email, req.Password)
			if err != nil {
				return err
			}
			created = id
			return nil
		},
		func(ctx context.Context) error {
			return uc.gateway.DeleteIdentity(ctx, created.ID)
		},
	)
	s.AddStep("写入用户镜像",
		func(ctx context.Context) error {
			return uc.users.Create(ctx, user.NewUser(created.ID, created.Email))
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", created.ID))
	return &SignUpResponse{UserID: created.ID, Email: created.Email}, nil
}

func recordSignup(err error) {
	if metrics.SignupsTotal == nil {
		return
	}
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case apperrors.IsSignupRejected(err):
		result = "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	default:
		result = metrics.ResultFailure
	}
	metrics.IncCounterVec(metrics.SignupsTotal, map[string]string{"result": result})
}
