package checkout

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLoanPeriod 默认借阅期限
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Event 借阅记录
// CheckinTime为nil表示尚未归还("未归还记录"),
// 同一本书任意时刻最多只有一条未归还记录
type Event struct {
	ID           string
	BookID       string
	UserID       string
	CheckoutTime time.Time
	CheckinTime  *time.Time
}

// NewEvent 创建一条未归还的借阅记录
func NewEvent(bookID, userID string, at time.Time) *Event {
	return &Event{
		ID:           uuid.NewString(),
		BookID:       bookID,
		UserID:       userID,
		CheckoutTime: at,
	}
}

// IsOpen 是否尚未归还
func (e *Event) IsOpen() bool {
	return e.CheckinTime == nil
}

// Receipt 借书成功的回执
type Receipt struct {
	EventID      string
	BookID       string
	UserID       string
	CheckoutTime time.Time
	DueDate      time.Time
}

// ReturnReceipt 还书成功的回执
type ReturnReceipt struct {
	EventID     string
	BookID      string
	UserID      string
	CheckinTime time.Time
}
