package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户镜像仓储实现（MySQL）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户镜像仓储
// 返回domain层的接口类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户镜像
// identity_id唯一性由数据库UNIQUE索引保证，冲突时转换为ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		ID:         u.ID,
		IdentityID: u.IdentityID,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "创建用户失败", err)
	}

	u.CreatedAt = model.CreatedAt
	return nil
}

// FindByIdentityID 根据身份ID查找
func (r *userRepository) FindByIdentityID(ctx context.Context, identityID string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where("identity_id = ?", identityID).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询用户失败", err)
	}

	return &user.User{
		ID:         model.ID,
		IdentityID: model.IdentityID,
		Email:      model.Email,
		CreatedAt:  model.CreatedAt,
	}, nil
}

// DeleteByIdentityID 删除用户镜像（物理删除）
func (r *userRepository) DeleteByIdentityID(ctx context.Context, identityID string) error {
	err := getDB(ctx, r.db).Where("identity_id = ?", identityID).Delete(&UserModel{}).Error
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "删除用户失败", err)
	}
	return nil
}
