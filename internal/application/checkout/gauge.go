package checkout

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

// SyncCheckedOutGauge 启动时用数据库中的借出数量初始化books_checked_out
// 之后由借书、还书用例增减
func SyncCheckedOutGauge(ctx context.Context, books book.Repository) error {
	if metrics.BooksCheckedOut == nil {
		return nil
	}
	n, err := books.CountCheckedOut(ctx)
	if err != nil {
		return err
	}
	metrics.SetGauge(metrics.BooksCheckedOut, float64(n))
	return nil
}
