package user

import (
	"context"
)

// Repository 用户镜像仓储接口
// 接口定义在domain层，具体实现在infrastructure/persistence/mysql
type Repository interface {
	// Create 创建用户镜像
	// 身份ID已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByIdentityID 根据身份ID查找
	// 不存在时返回errors.ErrUserNotFound
	FindByIdentityID(ctx context.Context, identityID string) (*User, error)

	// DeleteByIdentityID 删除用户镜像，不存在时不报错
	DeleteByIdentityID(ctx context.Context, identityID string) error
}
