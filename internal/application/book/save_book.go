package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
)

// SaveBookUseCase 新增或更新图书用例
type SaveBookUseCase struct {
	bookService book.Service
	log         *zap.Logger
}

// NewSaveBookUseCase 创建新增图书用例
func NewSaveBookUseCase(bookService book.Service, log *zap.Logger) *SaveBookUseCase {
	return &SaveBookUseCase{bookService: bookService, log: log}
}

// SaveBookRequest 新增图书请求
type SaveBookRequest struct {
	Title  string
	Author string
	ISBN   string
}

// SaveBookResponse 新增图书响应
type SaveBookResponse struct {
	Book    BookItem
	Created bool // true新建,false按ISBN更新了已有图书
}

// Execute 执行新增图书
func (uc *SaveBookUseCase) Execute(ctx context.Context, req SaveBookRequest) (*SaveBookResponse, error) {
	b, created, err := uc.bookService.SaveBook(ctx, req.ISBN, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	uc.log.Info("图书已保存",
		zap.String("book_id", b.ID),
		zap.String("isbn", b.ISBN),
		zap.Bool("created", created),
	)

	return &SaveBookResponse{Book: ToBookItem(b), Created: created}, nil
}
