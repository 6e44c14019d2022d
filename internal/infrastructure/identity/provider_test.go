package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/identity"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// memCreds 内存凭据表，按邮箱唯一
type memCreds struct {
	mu      sync.Mutex
	byEmail map[string]*identity.Credential
}

func (m *memCreds) Create(_ context.Context, c *identity.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[c.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	m.byEmail[c.Email] = c
	return nil
}

func (m *memCreds) FindByEmail(_ context.Context, email string) (*identity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return c, nil
}

func (m *memCreds) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, c := range m.byEmail {
		if c.ID == id {
			delete(m.byEmail, email)
		}
	}
	return nil
}

// memStore 内存黑名单和会话
type memStore struct {
	mu       sync.Mutex
	revoked  map[string]time.Duration
	sessions map[string]map[string]interface{}
	failSave error
}

func (m *memStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = ttl
	return nil
}

func (m *memStore) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}

func (m *memStore) SaveSession(_ context.Context, userID string, data map[string]interface{}, _ time.Duration) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = data
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

func newTestProvider(ttl time.Duration) (*Provider, *memCreds, *memStore) {
	creds := &memCreds{byEmail: make(map[string]*identity.Credential)}
	store := &memStore{revoked: make(map[string]time.Duration), sessions: make(map[string]map[string]interface{})}
	p := NewProvider(creds, jwt.NewManager("test-secret", ttl), store, store, zap.NewNop())
	p.cost = bcrypt.MinCost
	return p, creds, store
}

func TestProvider_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("注册成功,密码只保存哈希", func(t *testing.T) {
		p, creds, _ := newTestProvider(time.Hour)

		id, err := p.SignUp(ctx, " Reader@Example.com ", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, id.ID)
		assert.Equal(t, "reader@example.com", id.Email)

		cred := creds.byEmail["reader@example.com"]
		require.NotNil(t, cred)
		assert.NotEqual(t, "secret123", cred.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("secret123")))
	})

	t.Run("注册被拒绝", func(t *testing.T) {
		p, _, _ := newTestProvider(time.Hour)
		_, err := p.SignUp(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)

		tests := []struct {
			name     string
			email    string
			password string
		}{
			{"邮箱重复", "READER@example.com", "another123"},
			{"密码太弱", "new@example.com", "short"},
			{"邮箱格式错误", "not-an-email", "secret123"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := p.SignUp(ctx, tt.email, tt.password)
				assert.True(t, apperrors.IsSignupRejected(err), "期望注册被拒绝，实际%v", err)
			})
		}
	})
}

func TestProvider_Authenticate(t *testing.T) {
	ctx := context.Background()
	p, _, store := newTestProvider(time.Hour)
	reader, err := p.SignUp(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	t.Run("登录成功签发Token并记录会话", func(t *testing.T) {
		session, err := p.Authenticate(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now()))
		assert.Contains(t, store.sessions, reader.ID)

		userID, err := p.ResolveUser(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, reader.ID, userID)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := p.Authenticate(ctx, "reader@example.com", "wrong1234")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("邮箱未注册返回同样的错误", func(t *testing.T) {
		_, err := p.Authenticate(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("会话记录失败不影响登录", func(t *testing.T) {
		store.failSave = errors.New("redis down")
		defer func() { store.failSave = nil }()

		session, err := p.Authenticate(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})
}

func TestProvider_ResolveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("无法识别的Token", func(t *testing.T) {
		p, _, _ := newTestProvider(time.Hour)
		for _, token := range []string{"", "garbage", "a.b.c"} {
			_, err := p.ResolveUser(ctx, token)
			assert.True(t, apperrors.IsAuthFailure(err), "token=%q 期望凭证错误，实际%v", token, err)
		}
	})

	t.Run("其他密钥签发的Token", func(t *testing.T) {
		p, _, _ := newTestProvider(time.Hour)
		forged, err := jwt.NewManager("other-secret", time.Hour).GenerateToken("id-1", "reader@example.com")
		require.NoError(t, err)

		_, err = p.ResolveUser(ctx, forged.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("过期的Token", func(t *testing.T) {
		p, _, _ := newTestProvider(-time.Minute)
		_, err := p.SignUp(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		session, err := p.Authenticate(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)

		_, err = p.ResolveUser(ctx, session.Token)
		assert.True(t, apperrors.IsAuthFailure(err))
	})
}

func TestProvider_SignOut(t *testing.T) {
	ctx := context.Background()
	p, _, store := newTestProvider(time.Hour)
	reader, err := p.SignUp(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	session, err := p.Authenticate(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, session.Token))

	ttl, ok := store.revoked[session.Token]
	assert.True(t, ok, "登出后Token应进入黑名单")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5, "黑名单有效期应为Token剩余有效期")
	assert.NotContains(t, store.sessions, reader.ID)

	_, err = p.ResolveUser(ctx, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	assert.NoError(t, p.SignOut(ctx, session.Token), "重复登出不报错")
	assert.NoError(t, p.SignOut(ctx, "garbage"), "无效Token登出不报错")
}

func TestProvider_DeleteIdentity(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestProvider(time.Hour)
	reader, err := p.SignUp(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, p.DeleteIdentity(ctx, reader.ID))

	_, err = p.Authenticate(ctx, "reader@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
