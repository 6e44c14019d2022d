package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/client/api"
	"github.com/xiebiao/library/internal/client/session"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const testToken = "token-1"

// stubBackend 内存版服务端
type stubBackend struct {
	books    []api.Book
	holder   map[string]string
	requests int
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		books: []api.Book{
			{ID: "b-dune", Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719"},
			{ID: "b-go", Title: "The Go Programming Language", Author: "Alan Donovan", ISBN: "9780134190440"},
		},
		holder: make(map[string]string),
	}
}

func (s *stubBackend) auth(token string) error {
	s.requests++
	if token != testToken {
		return apperrors.ErrInvalidToken
	}
	return nil
}

func (s *stubBackend) ListBooks(ctx context.Context) ([]api.Book, error) {
	s.requests++
	out := make([]api.Book, len(s.books))
	for i, b := range s.books {
		b.IsCheckedOut = s.holder[b.ID] != ""
		out[i] = b
	}
	return out, nil
}

func (s *stubBackend) MyBooks(ctx context.Context, token, userID string) ([]api.Book, error) {
	if err := s.auth(token); err != nil {
		return nil, err
	}
	var out []api.Book
	for _, b := range s.books {
		if s.holder[b.ID] == userID {
			b.IsCheckedOut = true
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBackend) SaveBook(ctx context.Context, token string, req api.SaveBookRequest) (*api.SaveBookResult, error) {
	if err := s.auth(token); err != nil {
		return nil, err
	}
	book := api.Book{ID: "b-new", Title: req.Title, Author: req.Author, ISBN: req.ISBN}
	s.books = append(s.books, book)
	return &api.SaveBookResult{Book: book, Created: true}, nil
}

func (s *stubBackend) Checkout(ctx context.Context, token, bookID, userID string) (*api.CheckoutReceipt, error) {
	if err := s.auth(token); err != nil {
		return nil, err
	}
	if s.holder[bookID] != "" {
		return nil, apperrors.ErrAlreadyCheckedOut
	}
	s.holder[bookID] = userID
	return &api.CheckoutReceipt{BookID: bookID, UserID: userID, DueDate: "2026-11-01"}, nil
}

func (s *stubBackend) Return(ctx context.Context, token, bookID, userID string) (*api.ReturnReceipt, error) {
	if err := s.auth(token); err != nil {
		return nil, err
	}
	if s.holder[bookID] != userID {
		return nil, apperrors.ErrNotCheckedOutByUser
	}
	delete(s.holder, bookID)
	return &api.ReturnReceipt{Message: "还书成功", BookID: bookID}, nil
}

func (s *stubBackend) SignUp(ctx context.Context, email, password string) (*api.SignUpResult, error) {
	s.requests++
	return &api.SignUpResult{UserID: "u1", Email: email}, nil
}

func (s *stubBackend) Authenticate(ctx context.Context, email, password string) (string, error) {
	s.requests++
	if password != "secret123" {
		return "", apperrors.ErrInvalidCredentials
	}
	return testToken, nil
}

func (s *stubBackend) Logout(ctx context.Context, token string) error {
	return s.auth(token)
}

func (s *stubBackend) CurrentUser(ctx context.Context, token string) (*api.UserInfo, error) {
	if err := s.auth(token); err != nil {
		return nil, err
	}
	return &api.UserInfo{UserID: "u1", Email: "reader@example.com"}, nil
}

type testApp struct {
	*App
	backend *stubBackend
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	color.NoColor = true

	backend := newStubBackend()
	store := session.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	sess := session.New(backend, store, zap.NewNop())

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &testApp{
		App:     NewApp(sess, strings.NewReader(input), out, errOut),
		backend: backend,
		out:     out,
		errOut:  errOut,
	}
}

func TestRunMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("未登录借书在本地拒绝", func(t *testing.T) {
		app := newTestApp(t, "3\n2\n8\n6\n")

		require.NoError(t, app.RunMenu(ctx))
		assert.Equal(t, 3, strings.Count(app.errOut.String(), "请先登录"))
		assert.Zero(t, app.backend.requests, "未登录时不应请求服务端")
		assert.Contains(t, app.out.String(), "7. 注册")
	})

	t.Run("登录借书还书", func(t *testing.T) {
		input := strings.Join([]string{
			"5", "reader@example.com", "secret123",
			"3", "1",
			"8",
			"4", "1",
			"5",
			"6",
		}, "\n") + "\n"
		app := newTestApp(t, input)

		require.NoError(t, app.RunMenu(ctx))
		out := app.out.String()
		assert.Contains(t, out, "登录成功")
		assert.Contains(t, out, "借阅成功，请在 2026-11-01 前归还")
		assert.Contains(t, out, "我的借阅（1本）")
		assert.Contains(t, out, "还书成功")
		assert.Contains(t, out, "已退出登录")
		assert.Empty(t, app.errOut.String())
		assert.Empty(t, app.backend.holder)
	})

	t.Run("借阅冲突后继续菜单", func(t *testing.T) {
		app := newTestApp(t, "5\nreader@example.com\nsecret123\n3\n1\n3\nb-dune\n6\n")

		require.NoError(t, app.RunMenu(ctx))
		assert.Contains(t, app.errOut.String(), "这本书目前不可借阅")
		assert.Contains(t, app.out.String(), "再见")
	})

	t.Run("密码错误", func(t *testing.T) {
		app := newTestApp(t, "5\nreader@example.com\nwrong\n6\n")

		require.NoError(t, app.RunMenu(ctx))
		assert.Contains(t, app.errOut.String(), "邮箱或密码错误")
		assert.False(t, app.sess.IsAuthenticated())
	})

	t.Run("已登录时隐藏注册", func(t *testing.T) {
		app := newTestApp(t, "5\nreader@example.com\nsecret123\n0\n7\n6\n")

		require.NoError(t, app.RunMenu(ctx))
		assert.Contains(t, app.out.String(), "5. 退出登录")
		assert.Contains(t, app.errOut.String(), "已登录")
	})

	t.Run("无效选项", func(t *testing.T) {
		app := newTestApp(t, "42\n6\n")

		require.NoError(t, app.RunMenu(ctx))
		assert.Contains(t, app.errOut.String(), "无效的选项: 42")
	})

	t.Run("输入结束时退出", func(t *testing.T) {
		app := newTestApp(t, "1\n")

		require.NoError(t, app.RunMenu(ctx))
	})
}

func runCommand(app *testApp, args ...string) error {
	root := newRootCmd(app.App, func(*cobra.Command) error { return nil }, &rootFlags{})
	root.SetArgs(args)
	root.SetOut(app.out)
	root.SetErr(app.errOut)
	return root.Execute()
}

func TestCommands(t *testing.T) {
	t.Run("books搜索", func(t *testing.T) {
		app := newTestApp(t, "")

		require.NoError(t, runCommand(app, "books", "--search", "DUNE"))
		assert.Contains(t, app.out.String(), "图书列表（1本）")
		assert.Contains(t, app.out.String(), "Dune / Frank Herbert")
	})

	t.Run("未登录add-book", func(t *testing.T) {
		app := newTestApp(t, "")

		err := runCommand(app, "add-book", "--title", "Dune", "--author", "Frank Herbert", "--isbn", "9780441172719")
		assert.ErrorIs(t, err, session.ErrLoginRequired)
		assert.Zero(t, app.backend.requests)
	})

	t.Run("login后checkout", func(t *testing.T) {
		app := newTestApp(t, "secret123\n")

		require.NoError(t, runCommand(app, "login", "--email", "reader@example.com"))
		require.NoError(t, runCommand(app, "checkout", "b-go"))
		assert.Equal(t, "u1", app.backend.holder["b-go"])
	})

	t.Run("add-book交互输入", func(t *testing.T) {
		app := newTestApp(t, "secret123\nDune\nFrank Herbert\n9780441172719\n")

		require.NoError(t, runCommand(app, "login", "--email", "reader@example.com"))
		require.NoError(t, runCommand(app, "add-book"))
		assert.Contains(t, app.out.String(), "已添加《Dune》")
	})

	t.Run("checkout缺少参数", func(t *testing.T) {
		app := newTestApp(t, "")

		assert.Error(t, runCommand(app, "checkout"))
	})

	t.Run("未登录时logout", func(t *testing.T) {
		app := newTestApp(t, "")

		require.NoError(t, runCommand(app, "logout"))
		assert.Contains(t, app.errOut.String(), "当前未登录")
	})
}

func TestFilterBooks(t *testing.T) {
	books := newStubBackend().books

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"空查询返回全部", "", 2},
		{"按书名", "dune", 1},
		{"按作者", "donovan", 1},
		{"无匹配", "rust", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, filterBooks(books, tt.query), tt.want)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "登录已过期，请重新登录", describe(apperrors.ErrSessionExpired))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
