package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 把数据库错误(如ISBN重复)转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "创建图书失败", err)
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询图书失败", err)
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("isbn = ?", isbn).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询图书失败", err)
	}
	return toBookEntity(&model), nil
}

// Update 更新书名和作者
// 只更新这两列,借阅状态归借阅引擎管理,不能被覆盖
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":      b.Title,
			"author":     b.Author,
			"updated_at": b.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "更新图书失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 全部图书,按书名排序
func (r *bookRepository) List(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := getDB(ctx, r.db).Order("title ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询图书列表失败", err)
	}
	return toBookEntities(models), nil
}

// ListBorrowedBy 用户当前借着的图书
// SELECT books.* FROM books JOIN checkout_logs ON ... WHERE user_id = ? AND checkin_date IS NULL
func (r *bookRepository) ListBorrowedBy(ctx context.Context, userID string) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Select("books.*").
		Joins("JOIN checkout_logs ON checkout_logs.book_id = books.id").
		Where("checkout_logs.user_id = ? AND checkout_logs.checkin_date IS NULL", userID).
		Order("books.title ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "查询借阅图书失败", err)
	}
	return toBookEntities(models), nil
}

// LockByID 悲观锁查询图书
// SELECT * FROM books WHERE id = ? LIMIT 1 FOR UPDATE
// 必须在TxManager.Transaction中调用,锁在事务提交或回滚时释放
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "锁定图书失败", err)
	}
	return toBookEntity(&model), nil
}

// MarkCheckedOut 条件更新为借出状态
// UPDATE books SET is_checked_out = true, due_date = ? WHERE id = ? AND is_checked_out = false
func (r *bookRepository) MarkCheckedOut(ctx context.Context, id string, due time.Time) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ? AND is_checked_out = ?", id, false).
		Updates(map[string]interface{}{
			"is_checked_out": true,
			"due_date":       due,
		})
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "更新借阅状态失败", result.Error)
	}

	if result.RowsAffected == 0 {
		// 图书不存在,或者已经借出,再查一次确定原因
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return book.ErrAlreadyCheckedOut
	}
	return nil
}

// MarkReturned 更新为可借状态并清空应还日期
func (r *bookRepository) MarkReturned(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_checked_out": false,
			"due_date":       nil,
		})
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, "更新借阅状态失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// CountCheckedOut 借出中的图书数量
func (r *bookRepository) CountCheckedOut(ctx context.Context) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Where("is_checked_out = ?", true).Count(&n).Error
	if err != nil {
		return 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, "统计借出图书失败", err)
	}
	return n, nil
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:           b.ID,
		ISBN:         b.ISBN,
		Title:        b.Title,
		Author:       b.Author,
		IsCheckedOut: b.IsCheckedOut,
		DueDate:      b.DueDate,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:           model.ID,
		ISBN:         model.ISBN,
		Title:        model.Title,
		Author:       model.Author,
		IsCheckedOut: model.IsCheckedOut,
		DueDate:      model.DueDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
