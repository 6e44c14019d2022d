package checkout

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/checkout"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnBookUseCase 还书用例
type ReturnBookUseCase struct {
	engine    *checkout.Engine
	publisher mq.EventPublisher
	log       *zap.Logger
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(engine *checkout.Engine, publisher mq.EventPublisher, log *zap.Logger) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		engine:    engine,
		publisher: publisher,
		log:       log,
	}
}

// ReturnRequest 还书请求
type ReturnRequest struct {
	BookID string
	UserID string
}

// ReturnResponse 还书响应
type ReturnResponse struct {
	Message string `json:"message"`
	BookID  string `json:"book_id"`
}

// Execute 执行还书
// 书未借出或不是本人借出都返回ErrNotCheckedOutByUser
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnRequest) (resp *ReturnResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnBook")
	span.SetAttributes(
		attribute.String("book.id", req.BookID),
		attribute.String("user.id", req.UserID),
	)
	defer func() {
		recordResult(metrics.ReturnsTotal, err)
		tracing.EndSpan(span, err)
	}()

	receipt, err := uc.engine.Return(ctx, req.BookID, req.UserID)
	if err != nil {
		return nil, err
	}

	if metrics.BooksCheckedOut != nil {
		metrics.DecGauge(metrics.BooksCheckedOut)
	}

	publish(ctx, uc.publisher, uc.log, BookEvent{
		Type:       EventBookReturned,
		EventID:    receipt.EventID,
		BookID:     receipt.BookID,
		UserID:     receipt.UserID,
		OccurredAt: receipt.CheckinTime,
	})

	uc.log.Info("还书成功",
		zap.String("book_id", receipt.BookID),
		zap.String("user_id", receipt.UserID),
	)

	return &ReturnResponse{
		Message: "还书成功",
		BookID:  receipt.BookID,
	}, nil
}
