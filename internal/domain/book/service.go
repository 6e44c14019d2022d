package book

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Service 图书领域服务接口
type Service interface {
	// SaveBook 按ISBN新增或更新图书
	// 业务规则:
	// - 书名、作者、ISBN都不能为空
	// - ISBN去掉空白和连字符后不能为空,不校验位数和校验位
	// - ISBN已存在时更新书名和作者,借阅状态保持不变
	// 返回的created表示是否新建
	SaveBook(ctx context.Context, isbn, title, author string) (book *Book, created bool, err error)

	// ListBooks 全部图书,按书名排序
	ListBooks(ctx context.Context) ([]*Book, error)

	// ListBorrowedBy 用户当前借阅的图书
	ListBorrowedBy(ctx context.Context, userID string) ([]*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SaveBook 新增或更新图书
func (s *service) SaveBook(ctx context.Context, isbn, title, author string) (*Book, bool, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, false, ErrTitleRequired
	}
	if author == "" {
		return nil, false, ErrAuthorRequired
	}

	isbn, ok := normalizeISBN(isbn)
	if !ok {
		return nil, false, ErrInvalidISBN
	}

	existing, err := s.repo.FindByISBN(ctx, isbn)
	switch {
	case err == nil:
		existing.UpdateInfo(title, author)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, ErrBookNotFound):
		return nil, false, err
	}

	book := NewBook(isbn, title, author)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, false, err
	}
	return book, true, nil
}

// ListBooks 全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return s.repo.List(ctx)
}

// ListBorrowedBy 用户当前借阅的图书
func (s *service) ListBorrowedBy(ctx context.Context, userID string) ([]*Book, error) {
	return s.repo.ListBorrowedBy(ctx, userID)
}

var isbnSeparators = regexp.MustCompile(`[\s-]`)

// normalizeISBN 去掉分隔符(如978-7-115-42802-8 → 9787115428028)
// 同一本书带不带连字符都按同一个ISBN保存
func normalizeISBN(isbn string) (string, bool) {
	clean := isbnSeparators.ReplaceAllString(isbn, "")
	if clean == "" {
		return "", false
	}
	return clean, true
}
