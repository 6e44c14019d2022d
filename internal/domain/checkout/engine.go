package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// Engine 借阅引擎
// 借书和还书都是"锁定图书行 → 检查状态 → 写借阅记录 → 改图书状态"四步,
// 全部放在一个事务里。锁定后再检查,两个并发借书请求只有一个能看到可借状态。
// 状态不满足时直接返回错误,不做乐观重试。
type Engine struct {
	books      book.Repository
	events     Repository
	tx         TxManager
	loanPeriod time.Duration
	now        func() time.Time
}

// NewEngine 创建借阅引擎,loanPeriod<=0时使用DefaultLoanPeriod
func NewEngine(books book.Repository, events Repository, tx TxManager, loanPeriod time.Duration) *Engine {
	if loanPeriod <= 0 {
		loanPeriod = DefaultLoanPeriod
	}
	return &Engine{
		books:      books,
		events:     events,
		tx:         tx,
		loanPeriod: loanPeriod,
		now:        time.Now,
	}
}

// LoanPeriod 借阅期限
func (e *Engine) LoanPeriod() time.Duration {
	return e.loanPeriod
}

// Checkout 借书
// 图书已借出时返回ErrAlreadyCheckedOut,不做任何修改
func (e *Engine) Checkout(ctx context.Context, bookID, userID string) (*Receipt, error) {
	if bookID == "" || userID == "" {
		return nil, ErrInvalidRequest
	}

	var receipt *Receipt
	err := e.tx.Transaction(ctx, func(txCtx context.Context) error {
		// SELECT ... FOR UPDATE
		b, err := e.books.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}
		if b.IsCheckedOut {
			return ErrAlreadyCheckedOut
		}

		now := e.now()
		due := now.Add(e.loanPeriod)

		event := NewEvent(bookID, userID, now)
		if err := e.events.Create(txCtx, event); err != nil {
			return err
		}
		if err := e.books.MarkCheckedOut(txCtx, bookID, due); err != nil {
			return err
		}

		receipt = &Receipt{
			EventID:      event.ID,
			BookID:       bookID,
			UserID:       userID,
			CheckoutTime: now,
			DueDate:      due,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Return 还书
// 图书不存在或没有该用户的未归还记录时返回ErrNotCheckedOutByUser
func (e *Engine) Return(ctx context.Context, bookID, userID string) (*ReturnReceipt, error) {
	if bookID == "" || userID == "" {
		return nil, ErrInvalidRequest
	}

	var receipt *ReturnReceipt
	err := e.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 先锁图书行,和借书使用相同的加锁顺序
		// 图书不存在同样按未借阅处理,不暴露图书ID是否存在
		if _, err := e.books.LockByID(txCtx, bookID); err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return ErrNotCheckedOutByUser
			}
			return err
		}

		event, err := e.events.FindOpenByBookAndUser(txCtx, bookID, userID)
		if err != nil {
			return err
		}

		now := e.now()
		if err := e.events.Close(txCtx, event.ID, now); err != nil {
			return err
		}
		if err := e.books.MarkReturned(txCtx, bookID); err != nil {
			return err
		}

		receipt = &ReturnReceipt{
			EventID:     event.ID,
			BookID:      bookID,
			UserID:      userID,
			CheckinTime: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
