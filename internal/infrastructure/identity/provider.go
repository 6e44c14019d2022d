// Package identity 自建的身份服务实现
//
// 实现domain/identity.Gateway：凭据存MySQL（bcrypt哈希），
// Token用JWT签发，登出的Token进Redis黑名单直到自然过期。
package identity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/identity"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
)

// passwordCost bcrypt cost，每+1耗时翻倍，12约250ms
const passwordCost = 12

// SessionRecorder 登录会话记录，写入失败不影响登录
type SessionRecorder interface {
	SaveSession(ctx context.Context, userID string, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID string) error
}

// Provider 身份服务
type Provider struct {
	creds       identity.CredentialRepository
	tokens      *jwt.Manager
	revocations identity.RevocationStore
	sessions    SessionRecorder
	log         *zap.Logger

	cost int
	now  func() time.Time
}

var _ identity.Gateway = (*Provider)(nil)

// NewProvider 创建身份服务
func NewProvider(
	creds identity.CredentialRepository,
	tokens *jwt.Manager,
	revocations identity.RevocationStore,
	sessions SessionRecorder,
	log *zap.Logger,
) *Provider {
	return &Provider{
		creds:       creds,
		tokens:      tokens,
		revocations: revocations,
		sessions:    sessions,
		log:         log,
		cost:        passwordCost,
		now:         time.Now,
	}
}

// SignUp 注册账号
// 1. 邮箱格式、密码强度校验
// 2. bcrypt加密（自动加盐）
// 3. 邮箱唯一性由数据库UNIQUE索引保证
func (p *Provider) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateSignup(email, password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	cred := identity.NewCredential(email, string(hashed))
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}

	p.log.Info("账号注册成功", zap.String("identity_id", cred.ID))
	return &identity.Identity{ID: cred.ID, Email: cred.Email}, nil
}

// Authenticate 邮箱密码登录
// 邮箱不存在和密码错误返回同一个错误，不暴露邮箱是否注册过
func (p *Provider) Authenticate(ctx context.Context, email, password string) (session *identity.Session, err error) {
	defer func() { recordAuthentication(err) }()

	cred, err := p.creds.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	token, err := p.tokens.GenerateToken(cred.ID, cred.Email)
	if err != nil {
		return nil, err
	}

	now := p.now()
	if p.sessions != nil {
		data := map[string]interface{}{
			"email":      cred.Email,
			"login_at":   now.Unix(),
			"expires_at": token.ExpiresAt.Unix(),
		}
		if err := p.sessions.SaveSession(ctx, cred.ID, data, token.ExpiresAt.Sub(now)); err != nil {
			p.log.Warn("保存登录会话失败", zap.String("identity_id", cred.ID), zap.Error(err))
		}
	}

	return &identity.Session{Token: token.AccessToken, ExpiresAt: token.ExpiresAt}, nil
}

// ResolveUser 解析Token得到身份ID
// 先验签再查黑名单，伪造的Token不会打到Redis
func (p *Provider) ResolveUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrInvalidToken
	}

	claims, err := p.tokens.ParseToken(token)
	if err != nil {
		return "", err
	}

	revoked, err := p.revocations.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", apperrors.ErrInvalidToken
	}

	return claims.UserID, nil
}

// SignOut 登出
// 已失效的Token直接返回成功，重复登出不报错
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.ParseToken(token)
	if err != nil {
		return nil
	}

	if err := p.revocations.Revoke(ctx, token, claims.RemainingTTL(p.now())); err != nil {
		return err
	}

	if p.sessions != nil {
		if err := p.sessions.DeleteSession(ctx, claims.UserID); err != nil {
			p.log.Warn("删除登录会话失败", zap.String("identity_id", claims.UserID), zap.Error(err))
		}
	}
	return nil
}

// DeleteIdentity 删除账号
func (p *Provider) DeleteIdentity(ctx context.Context, id string) error {
	if err := p.creds.Delete(ctx, id); err != nil {
		return err
	}
	p.log.Info("账号已删除", zap.String("identity_id", id))
	return nil
}

func recordAuthentication(err error) {
	if metrics.AuthenticationsTotal == nil {
		return
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
	}
	metrics.IncCounterVec(metrics.AuthenticationsTotal, map[string]string{"result": result})
}
