// Package session 客户端会话
//
// 两个状态：
//
//	Anonymous --Login成功--> Authenticated(token)
//	Authenticated --Logout / 任意请求返回认证失败--> Anonymous
//
// 借书、还书、添加图书、我的借阅在Anonymous状态下直接返回ErrLoginRequired，不发请求。
// 请求中途发现Token失效时清掉本地Token，返回ErrSessionExpired，提示重新登录。
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/client/api"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// State 会话状态
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

var (
	// ErrLoginRequired 未登录时调用需要登录的操作,不发请求
	// 和服务端返回的ErrUnauthorized区分开
	ErrLoginRequired = apperrors.ErrLoginRequired

	// ErrSessionExpired 请求过程中发现Token已失效
	ErrSessionExpired = apperrors.ErrSessionExpired
)

// Backend 会话依赖的服务端接口，由*api.Client实现
type Backend interface {
	ListBooks(ctx context.Context) ([]api.Book, error)
	MyBooks(ctx context.Context, token, userID string) ([]api.Book, error)
	SaveBook(ctx context.Context, token string, req api.SaveBookRequest) (*api.SaveBookResult, error)
	Checkout(ctx context.Context, token, bookID, userID string) (*api.CheckoutReceipt, error)
	Return(ctx context.Context, token, bookID, userID string) (*api.ReturnReceipt, error)
	SignUp(ctx context.Context, email, password string) (*api.SignUpResult, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*api.UserInfo, error)
}

var _ Backend = (*api.Client)(nil)

// Session 客户端会话
// 不使用全局变量，GUI和命令行都可以各自持有一个
type Session struct {
	backend Backend
	store   *TokenStore
	log     *zap.Logger

	mu    sync.Mutex
	token string
}

// New 创建会话，初始为Anonymous，调用Start恢复上次的登录
func New(backend Backend, store *TokenStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		backend: backend,
		store:   store,
		log:     log,
	}
}

// Start 恢复本地保存的Token
// 1. 没有Token文件 → Anonymous
// 2. 文件损坏 → 删除文件，Anonymous
// 3. 服务端认可Token → Authenticated
// 4. 服务端拒绝Token → 删除文件，Anonymous
// 5. 网络错误 → Anonymous，保留文件，返回错误
func (s *Session) Start(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		s.log.Warn("Token文件不可用，按未登录处理", zap.Error(err))
		s.discardToken()
		return nil
	}
	if token == "" {
		return nil
	}

	if _, err := s.backend.CurrentUser(ctx, token); err != nil {
		if apperrors.IsAuthFailure(err) {
			s.discardToken()
			return nil
		}
		return err
	}

	s.setToken(token)
	return nil
}

// State 当前状态
func (s *Session) State() State {
	if s.currentToken() == "" {
		return Anonymous
	}
	return Authenticated
}

// IsAuthenticated 是否已登录
func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// Login 登录并保存Token
// 保存失败只记日志，本次登录仍然有效
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.backend.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}

	s.setToken(token)
	if err := s.store.Save(token); err != nil {
		s.log.Warn("保存Token失败，下次启动需要重新登录", zap.Error(err))
	}
	return nil
}

// Logout 通知服务端作废Token，并删除本地Token
// 服务端不可达时本地仍然登出，返回网络错误供提示
func (s *Session) Logout(ctx context.Context) error {
	token := s.currentToken()
	if token == "" {
		return nil
	}

	err := s.backend.Logout(ctx, token)
	s.discardToken()

	if err != nil && !apperrors.IsAuthFailure(err) {
		return err
	}
	return nil
}

// SignUp 注册，不改变登录状态
func (s *Session) SignUp(ctx context.Context, email, password string) (*api.SignUpResult, error) {
	return s.backend.SignUp(ctx, email, password)
}

// Books 全部图书，不需要登录
func (s *Session) Books(ctx context.Context) ([]api.Book, error) {
	return s.backend.ListBooks(ctx)
}

// WhoAmI 当前用户
func (s *Session) WhoAmI(ctx context.Context) (*api.UserInfo, error) {
	var info *api.UserInfo
	err := s.authorized(ctx, func(token string) error {
		var err error
		info, err = s.backend.CurrentUser(ctx, token)
		return err
	})
	return info, err
}

// MyBooks 当前用户借着的图书
func (s *Session) MyBooks(ctx context.Context) ([]api.Book, error) {
	var books []api.Book
	err := s.authorized(ctx, func(token string) error {
		user, err := s.backend.CurrentUser(ctx, token)
		if err != nil {
			return err
		}
		books, err = s.backend.MyBooks(ctx, token, user.UserID)
		return err
	})
	return books, err
}

// AddBook 新增图书，ISBN已存在时更新书名和作者
func (s *Session) AddBook(ctx context.Context, title, author, isbn string) (*api.SaveBookResult, error) {
	var result *api.SaveBookResult
	err := s.authorized(ctx, func(token string) error {
		var err error
		result, err = s.backend.SaveBook(ctx, token, api.SaveBookRequest{Title: title, Author: author, ISBN: isbn})
		return err
	})
	return result, err
}

// Checkout 借书，先查询当前用户标识再提交
func (s *Session) Checkout(ctx context.Context, bookID string) (*api.CheckoutReceipt, error) {
	var receipt *api.CheckoutReceipt
	err := s.authorized(ctx, func(token string) error {
		user, err := s.backend.CurrentUser(ctx, token)
		if err != nil {
			return err
		}
		receipt, err = s.backend.Checkout(ctx, token, bookID, user.UserID)
		return err
	})
	return receipt, err
}

// Return 还书
func (s *Session) Return(ctx context.Context, bookID string) (*api.ReturnReceipt, error) {
	var receipt *api.ReturnReceipt
	err := s.authorized(ctx, func(token string) error {
		user, err := s.backend.CurrentUser(ctx, token)
		if err != nil {
			return err
		}
		receipt, err = s.backend.Return(ctx, token, bookID, user.UserID)
		return err
	})
	return receipt, err
}

// authorized 未登录时不发请求，请求返回认证失败时回到Anonymous
func (s *Session) authorized(ctx context.Context, fn func(token string) error) error {
	token := s.currentToken()
	if token == "" {
		return ErrLoginRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := fn(token)
	if err != nil && apperrors.IsAuthFailure(err) {
		s.log.Info("登录已过期", zap.Error(err))
		s.discardToken()
		return ErrSessionExpired
	}
	return err
}

func (s *Session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// discardToken 回到Anonymous并删除本地Token
func (s *Session) discardToken() {
	s.setToken("")
	if err := s.store.Delete(); err != nil {
		s.log.Warn("删除Token文件失败", zap.Error(err))
	}
}

// IsLoginRequired 错误是否需要用户(重新)登录
func IsLoginRequired(err error) bool {
	return errors.Is(err, ErrLoginRequired) || errors.Is(err, ErrSessionExpired)
}
