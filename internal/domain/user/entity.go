package user

import (
	"time"

	"github.com/google/uuid"
)

// User 本地用户镜像
// 设计说明：
// 1. 账号和密码归身份服务管理，本地只保存身份ID到本地ID的映射
// 2. 注册成功时创建，借阅记录里的user_id使用IdentityID
// 3. 领域实体不依赖GORM tag（infrastructure层处理映射）
type User struct {
	ID         string
	IdentityID string // 身份服务中的用户标识
	Email      string
	CreatedAt  time.Time
}

// NewUser 创建用户镜像（工厂方法）
func NewUser(identityID, email string) *User {
	return &User{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Email:      email,
		CreatedAt:  time.Now(),
	}
}
