package book

import (
	"context"
	"time"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新书名和作者,不修改借阅状态
	Update(ctx context.Context, book *Book) error

	// List 按书名排序返回全部图书
	List(ctx context.Context) ([]*Book, error)

	// ListBorrowedBy 返回用户当前借着(借阅记录未归还)的图书
	ListBorrowedBy(ctx context.Context, userID string) ([]*Book, error)

	// LockByID 悲观锁查询图书
	// 使用SELECT FOR UPDATE锁定行,同一本书的借还操作串行执行
	// 必须在事务中调用
	LockByID(ctx context.Context, id string) (*Book, error)

	// MarkCheckedOut 条件更新为借出状态
	// 仅当is_checked_out=false时生效,否则返回ErrAlreadyCheckedOut
	MarkCheckedOut(ctx context.Context, id string, due time.Time) error

	// MarkReturned 更新为可借状态并清空应还日期
	MarkReturned(ctx context.Context, id string) error

	// CountCheckedOut 当前借出中的图书数量
	CountCheckedOut(ctx context.Context) (int64, error)
}
