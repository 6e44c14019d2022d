package book

import (
	"time"

	"github.com/google/uuid"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID使用uuid字符串,对客户端是不透明标识
// 2. ISBN作为业务唯一标识(数据库层保证唯一性)
// 3. IsCheckedOut与DueDate只由借阅引擎修改,和借阅记录保持一致
type Book struct {
	ID           string
	ISBN         string     // ISBN号(国际标准书号)
	Title        string     // 书名
	Author       string     // 作者
	IsCheckedOut bool       // 是否已借出
	DueDate      *time.Time // 应还日期,未借出时为nil
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBook 创建新图书(工厂方法),新书总是可借状态
func NewBook(isbn, title, author string) *Book {
	now := time.Now()
	return &Book{
		ID:        uuid.NewString(),
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateInfo 更新图书基本信息,空值不覆盖
func (b *Book) UpdateInfo(title, author string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	b.UpdatedAt = time.Now()
}

// IsAvailable 是否可借
func (b *Book) IsAvailable() bool {
	return !b.IsCheckedOut
}

// CheckOut 标记借出
func (b *Book) CheckOut(due time.Time) error {
	if b.IsCheckedOut {
		return ErrAlreadyCheckedOut
	}
	b.IsCheckedOut = true
	b.DueDate = &due
	b.UpdatedAt = time.Now()
	return nil
}

// MarkReturned 标记归还
func (b *Book) MarkReturned() {
	b.IsCheckedOut = false
	b.DueDate = nil
	b.UpdatedAt = time.Now()
}
