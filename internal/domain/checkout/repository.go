package checkout

import (
	"context"
	"time"
)

// Repository 借阅记录仓储
type Repository interface {
	// Create 写入一条借阅记录
	Create(ctx context.Context, event *Event) error

	// FindOpenByBookAndUser 加锁查询(bookID, userID)的未归还记录
	// 不存在时返回ErrNotCheckedOutByUser
	FindOpenByBookAndUser(ctx context.Context, bookID, userID string) (*Event, error)

	// Close 设置归还时间,只对未归还记录生效
	Close(ctx context.Context, id string, at time.Time) error
}

// TxManager 事务管理器
// fn中的仓储操作在同一事务中执行,fn返回error时回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
