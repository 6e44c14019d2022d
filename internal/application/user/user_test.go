package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/identity"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *mockGateway) Authenticate(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *mockGateway) ResolveUser(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockGateway) DeleteIdentity(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) FindByIdentityID(ctx context.Context, identityID string) (*user.User, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) DeleteByIdentityID(ctx context.Context, identityID string) error {
	return m.Called(ctx, identityID).Error(0)
}

func TestSignUpUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	created := &identity.Identity{ID: "id-1", Email: "reader@example.com"}

	t.Run("注册成功写入用户镜像", func(t *testing.T) {
		gw := new(mockGateway)
		users := new(mockUserRepo)
		gw.On("SignUp", mock.Anything, "reader@example.com", "secret123").Return(created, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.IdentityID == "id-1" && u.Email == "reader@example.com"
		})).Return(nil)

		uc := NewSignUpUseCase(gw, users, zap.NewNop())
		resp, err := uc.Execute(ctx, SignUpRequest{Email: "reader@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "id-1", resp.UserID)
		assert.Equal(t, "reader@example.com", resp.Email)
		gw.AssertNotCalled(t, "DeleteIdentity", mock.Anything, mock.Anything)
		users.AssertExpectations(t)
	})

	t.Run("邮箱已注册不写镜像", func(t *testing.T) {
		gw := new(mockGateway)
		users := new(mockUserRepo)
		gw.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrEmailDuplicate)

		uc := NewSignUpUseCase(gw, users, zap.NewNop())
		_, err := uc.Execute(ctx, SignUpRequest{Email: "reader@example.com", Password: "secret123"})

		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
		assert.True(t, apperrors.IsSignupRejected(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		gw.AssertNotCalled(t, "DeleteIdentity", mock.Anything, mock.Anything)
	})

	t.Run("写镜像失败删除已创建的身份", func(t *testing.T) {
		gw := new(mockGateway)
		users := new(mockUserRepo)
		gw.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(created, nil)
		gw.On("DeleteIdentity", mock.Anything, "id-1").Return(nil)
		users.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrDatabaseError)

		uc := NewSignUpUseCase(gw, users, zap.NewNop())
		_, err := uc.Execute(ctx, SignUpRequest{Email: "reader@example.com", Password: "secret123"})

		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
		gw.AssertCalled(t, "DeleteIdentity", mock.Anything, "id-1")
	})
}

func TestLoginUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	gw := new(mockGateway)
	gw.On("Authenticate", mock.Anything, "reader@example.com", "secret123").
		Return(&identity.Session{Token: "token-1", ExpiresAt: expires}, nil)
	gw.On("Authenticate", mock.Anything, "reader@example.com", "wrong").
		Return(nil, apperrors.ErrInvalidCredentials)

	uc := NewLoginUseCase(gw)

	resp, err := uc.Execute(ctx, LoginRequest{Email: "reader@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, expires, resp.ExpiresAt)

	_, err = uc.Execute(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutUseCase_Execute(t *testing.T) {
	gw := new(mockGateway)
	gw.On("SignOut", mock.Anything, "token-1").Return(nil)

	err := NewLogoutUseCase(gw).Execute(context.Background(), "token-1")

	assert.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestCurrentUserUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("返回用户镜像", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByIdentityID", mock.Anything, "id-1").
			Return(&user.User{ID: "u-1", IdentityID: "id-1", Email: "reader@example.com"}, nil)

		info, err := NewCurrentUserUseCase(users).Execute(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, "id-1", info.UserID)
		assert.Equal(t, "reader@example.com", info.Email)
	})

	t.Run("镜像缺失仍返回用户标识", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByIdentityID", mock.Anything, "id-2").Return(nil, apperrors.ErrUserNotFound)

		info, err := NewCurrentUserUseCase(users).Execute(ctx, "id-2")
		require.NoError(t, err)
		assert.Equal(t, "id-2", info.UserID)
		assert.Empty(t, info.Email)
	})

	t.Run("数据库错误透传", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByIdentityID", mock.Anything, "id-3").Return(nil, apperrors.ErrDatabaseError)

		_, err := NewCurrentUserUseCase(users).Execute(ctx, "id-3")
		assert.True(t, errors.Is(err, apperrors.ErrDatabaseError))
	})
}
