package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/identity"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// identityRepository 登录凭据仓储（identities表）
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository 创建凭据仓储
func NewIdentityRepository(db *gorm.DB) identity.CredentialRepository {
	return &identityRepository{db: db}
}

// Create 创建凭据
// 邮箱唯一性由UNIQUE索引保证，不在应用层先查再插
func (r *identityRepository) Create(ctx context.Context, c *identity.Credential) error {
	model := &IdentityModel{
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		CreatedAt:    c.CreatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "创建账号失败", err)
	}
	return nil
}

// FindByEmail 根据邮箱查找凭据
func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*identity.Credential, error) {
	var model IdentityModel
	err := getDB(ctx, r.db).Where("email = ?", email).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询账号失败", err)
	}

	return &identity.Credential{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
	}, nil
}

// Delete 删除凭据
func (r *identityRepository) Delete(ctx context.Context, id string) error {
	err := getDB(ctx, r.db).Where("id = ?", id).Delete(&IdentityModel{}).Error
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "删除账号失败", err)
	}
	return nil
}
