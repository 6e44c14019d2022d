package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 馆藏规模小,不分页,按书名排序返回全部图书
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) ([]BookItem, error) {
	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// MyBooksUseCase 我的借阅查询用例
type MyBooksUseCase struct {
	bookService book.Service
}

// NewMyBooksUseCase 创建我的借阅查询用例
func NewMyBooksUseCase(bookService book.Service) *MyBooksUseCase {
	return &MyBooksUseCase{bookService: bookService}
}

// Execute 返回用户当前借着的图书(含应还日期),没有时返回空列表
func (uc *MyBooksUseCase) Execute(ctx context.Context, userID string) ([]BookItem, error) {
	books, err := uc.bookService.ListBorrowedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}
