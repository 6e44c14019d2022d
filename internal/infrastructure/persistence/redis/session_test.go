package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	domainidentity "github.com/xiebiao/library/internal/domain/identity"
	"github.com/xiebiao/library/internal/infrastructure/identity"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 身份服务只依赖这两组方法
var (
	_ identity.SessionRecorder       = (*SessionStore)(nil)
	_ domainidentity.RevocationStore = (*SessionStore)(nil)
)

func TestBlacklistKey(t *testing.T) {
	key := blacklistKey("header.payload.signature")

	assert.True(t, strings.HasPrefix(key, "blacklist:"))
	assert.NotContains(t, key, "payload", "Key中不应出现Token原文")
	assert.Len(t, key, len("blacklist:")+64)
	assert.Equal(t, key, blacklistKey("header.payload.signature"), "同一Token的Key应稳定")
	assert.NotEqual(t, key, blacklistKey("other.token"))
}

// unreachableStore 连接一个没有监听的端口
func unreachableStore() *SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewSessionStore(client)
}

func TestSessionStore_RedisUnavailable(t *testing.T) {
	store := unreachableStore()
	ctx := context.Background()

	err := store.Revoke(ctx, "token", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)

	_, err = store.IsRevoked(ctx, "token")
	assert.ErrorIs(t, err, apperrors.ErrRedisError)

	err = store.SaveSession(ctx, "u-1", map[string]interface{}{"email": "reader@example.com"}, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)

	err = store.DeleteSession(ctx, "u-1")
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
}

func TestSessionStore_RevokeExpiredTokenIsNoop(t *testing.T) {
	store := unreachableStore()

	// 已过期的Token不需要进黑名单，也不会访问Redis
	assert.NoError(t, store.Revoke(context.Background(), "token", 0))
}
