// Package identity 身份服务端口
//
// 注册、登录、解析Token、登出都通过Gateway完成，
// 借阅系统自己不保存密码，也不关心Token的格式。
package identity

import (
	"context"
	"time"
)

// Identity 身份服务中的一个账号
type Identity struct {
	ID    string
	Email string
}

// Session 登录成功后签发的凭证
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Gateway 身份服务
type Gateway interface {
	// SignUp 注册账号
	// 邮箱已注册、邮箱格式错误、密码强度不足时返回的错误满足errors.IsSignupRejected
	SignUp(ctx context.Context, email, password string) (*Identity, error)

	// Authenticate 邮箱密码登录，失败统一返回errors.ErrInvalidCredentials
	Authenticate(ctx context.Context, email, password string) (*Session, error)

	// ResolveUser 把Token解析为用户标识
	// 无法识别、已过期或已登出的Token返回errors.ErrInvalidToken
	ResolveUser(ctx context.Context, token string) (string, error)

	// SignOut 使Token失效，重复调用不报错
	SignOut(ctx context.Context, token string) error

	// DeleteIdentity 删除账号（注册流程的补偿操作）
	DeleteIdentity(ctx context.Context, id string) error
}
