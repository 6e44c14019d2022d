package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/checkout"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/checkout"

// CheckoutBookUseCase 借书用例
// 编排:借阅引擎(事务) → 指标 → 事件
type CheckoutBookUseCase struct {
	engine    *checkout.Engine
	publisher mq.EventPublisher
	log       *zap.Logger
}

// NewCheckoutBookUseCase 创建借书用例
func NewCheckoutBookUseCase(engine *checkout.Engine, publisher mq.EventPublisher, log *zap.Logger) *CheckoutBookUseCase {
	return &CheckoutBookUseCase{
		engine:    engine,
		publisher: publisher,
		log:       log,
	}
}

// CheckoutRequest 借书请求
type CheckoutRequest struct {
	BookID string
	UserID string // 从Token解析出的用户标识
}

// CheckoutResponse 借书响应
type CheckoutResponse struct {
	Message      string `json:"message"`
	BookID       string `json:"book_id"`
	UserID       string `json:"user_id"`
	CheckoutTime string `json:"checkout_time"`
	DueDate      string `json:"due_date"` // YYYY-MM-DD
}

// Execute 执行借书
func (uc *CheckoutBookUseCase) Execute(ctx context.Context, req CheckoutRequest) (resp *CheckoutResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CheckoutBook")
	span.SetAttributes(
		attribute.String("book.id", req.BookID),
		attribute.String("user.id", req.UserID),
	)
	start := time.Now()
	defer func() {
		recordResult(metrics.CheckoutsTotal, err)
		if metrics.CheckoutDuration != nil {
			metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
		}
		tracing.EndSpan(span, err)
	}()

	receipt, err := uc.engine.Checkout(ctx, req.BookID, req.UserID)
	if err != nil {
		return nil, err
	}

	if metrics.BooksCheckedOut != nil {
		metrics.IncGauge(metrics.BooksCheckedOut)
	}

	publish(ctx, uc.publisher, uc.log, BookEvent{
		Type:       EventBookCheckedOut,
		EventID:    receipt.EventID,
		BookID:     receipt.BookID,
		UserID:     receipt.UserID,
		DueDate:    &receipt.DueDate,
		OccurredAt: receipt.CheckoutTime,
	})

	due := receipt.DueDate.Format(appbook.DateLayout)
	uc.log.Info("借书成功",
		zap.String("book_id", receipt.BookID),
		zap.String("user_id", receipt.UserID),
		zap.String("due_date", due),
	)

	return &CheckoutResponse{
		Message:      fmt.Sprintf("借书成功，应还日期：%s", due),
		BookID:       receipt.BookID,
		UserID:       receipt.UserID,
		CheckoutTime: receipt.CheckoutTime.Format(time.RFC3339),
		DueDate:      due,
	}, nil
}

// recordResult 借还结果计数,状态冲突单独统计
func recordResult(counter *prometheus.CounterVec, err error) {
	if counter == nil {
		return
	}
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrAlreadyCheckedOut), errors.Is(err, checkout.ErrNotCheckedOutByUser):
		result = metrics.ResultConflict
	default:
		result = metrics.ResultFailure
	}
	metrics.IncCounterVec(counter, map[string]string{"result": result})
}
