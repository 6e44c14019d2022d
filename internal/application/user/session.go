package user

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/identity"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// LoginUseCase 登录用例
type LoginUseCase struct {
	gateway identity.Gateway
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(gateway identity.Gateway) *LoginUseCase {
	return &LoginUseCase{gateway: gateway}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	session, err := uc.gateway.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}, nil
}

// LogoutUseCase 登出用例
type LogoutUseCase struct {
	gateway identity.Gateway
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(gateway identity.Gateway) *LogoutUseCase {
	return &LogoutUseCase{gateway: gateway}
}

// Execute 执行登出,Token已失效时同样返回成功
func (uc *LogoutUseCase) Execute(ctx context.Context, token string) error {
	return uc.gateway.SignOut(ctx, token)
}

// CurrentUserUseCase 当前用户查询
type CurrentUserUseCase struct {
	users user.Repository
}

// NewCurrentUserUseCase 创建当前用户查询用例
func NewCurrentUserUseCase(users user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{users: users}
}

// UserInfo 用户信息
type UserInfo struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Execute 根据Token解析出的用户标识返回用户信息
// 用户镜像缺失时仍然返回用户标识
func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID string) (*UserInfo, error) {
	u, err := uc.users.FindByIdentityID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return &UserInfo{UserID: userID}, nil
		}
		return nil, err
	}
	return &UserInfo{UserID: u.IdentityID, Email: u.Email}, nil
}
