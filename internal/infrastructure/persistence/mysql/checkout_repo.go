package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/checkout"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// checkoutRepository 借阅记录仓储(checkout_logs表)
type checkoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository 创建借阅记录仓储
func NewCheckoutRepository(db *gorm.DB) checkout.Repository {
	return &checkoutRepository{db: db}
}

// Create 写入借阅记录
func (r *checkoutRepository) Create(ctx context.Context, e *checkout.Event) error {
	model := &CheckoutEventModel{
		ID:           e.ID,
		BookID:       e.BookID,
		UserID:       e.UserID,
		CheckoutDate: e.CheckoutTime,
		CheckinDate:  e.CheckinTime,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "创建借阅记录失败", err)
	}
	return nil
}

// FindOpenByBookAndUser 加锁查询未归还记录
func (r *checkoutRepository) FindOpenByBookAndUser(ctx context.Context, bookID, userID string) (*checkout.Event, error) {
	var model CheckoutEventModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("book_id = ? AND user_id = ? AND checkin_date IS NULL", bookID, userID).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkout.ErrNotCheckedOutByUser
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询借阅记录失败", err)
	}

	return &checkout.Event{
		ID:           model.ID,
		BookID:       model.BookID,
		UserID:       model.UserID,
		CheckoutTime: model.CheckoutDate,
		CheckinTime:  model.CheckinDate,
	}, nil
}

// Close 设置归还时间
// UPDATE checkout_logs SET checkin_date = ? WHERE id = ? AND checkin_date IS NULL
func (r *checkoutRepository) Close(ctx context.Context, id string, at time.Time) error {
	result := getDB(ctx, r.db).Model(&CheckoutEventModel{}).
		Where("id = ? AND checkin_date IS NULL", id).
		Update("checkin_date", at)
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "更新借阅记录失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return checkout.ErrNotCheckedOutByUser
	}
	return nil
}
