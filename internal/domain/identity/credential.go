package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Credential 身份服务保存的登录凭据
// PasswordHash是bcrypt哈希值，不保存明文
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewCredential 创建凭据，hashedPassword必须已经过bcrypt加密
func NewCredential(email, hashedPassword string) *Credential {
	return &Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}
}

// CredentialRepository 凭据仓储
type CredentialRepository interface {
	// Create 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, cred *Credential) error

	// FindByEmail 不存在时返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*Credential, error)

	// Delete 不存在时不报错
	Delete(ctx context.Context, id string) error
}

// RevocationStore 已登出Token的黑名单
type RevocationStore interface {
	// Revoke 在ttl内把token标记为失效
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// IsRevoked token是否已失效
	IsRevoked(ctx context.Context, token string) (bool, error)
}
