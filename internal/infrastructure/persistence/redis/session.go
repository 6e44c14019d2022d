package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// SessionStore 会话存储
// 1. 登录会话记录 session:{user_id}（登录时间、过期时间）
// 2. 登出Token的黑名单 blacklist:{sha256(token)}
// Key只保存Token的摘要，Redis里不出现完整Token
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 保存用户会话
// 过期时间与Token有效期一致，可用于统计在线用户
func (s *SessionStore) SaveSession(ctx context.Context, userID string, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "保存会话失败", err)
	}
	return nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "删除会话失败", err)
	}
	return nil
}

// Revoke 将Token加入黑名单，ttl取Token剩余有效期，过期后自动删除
func (s *SessionStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "添加Token到黑名单失败", err)
	}
	return nil
}

// IsRevoked 检查Token是否在黑名单中
func (s *SessionStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, "检查黑名单失败", err)
	}
	return exists > 0, nil
}
