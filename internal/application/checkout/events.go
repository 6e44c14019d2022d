package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/mq"
)

// 事件routing key
const (
	EventBookCheckedOut = "book.checked_out"
	EventBookReturned   = "book.returned"
)

// BookEvent 借还事件
type BookEvent struct {
	Type       string     `json:"type"`
	EventID    string     `json:"event_id"` // 借阅记录ID
	BookID     string     `json:"book_id"`
	UserID     string     `json:"user_id"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// publish 事务提交后发布事件,失败只记日志
// 借还结果已经落库,事件丢失只影响下游统计
func publish(ctx context.Context, publisher mq.EventPublisher, log *zap.Logger, event BookEvent) {
	if err := publisher.Publish(ctx, event.Type, event); err != nil {
		log.Warn("发布借还事件失败",
			zap.String("type", event.Type),
			zap.String("book_id", event.BookID),
			zap.Error(err),
		)
	}
}
