package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// DateLayout 应还日期的展示格式
const DateLayout = "2006-01-02"

// BookItem 图书DTO
// 不直接返回领域实体,领域模型变更不影响API契约
type BookItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	ISBN         string  `json:"isbn"`
	IsCheckedOut bool    `json:"is_checked_out"`
	DueDate      *string `json:"due_date"` // YYYY-MM-DD,未借出时为null
}

// ToBookItem 领域实体 → DTO
func ToBookItem(b *book.Book) BookItem {
	item := BookItem{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		ISBN:         b.ISBN,
		IsCheckedOut: b.IsCheckedOut,
	}
	if b.DueDate != nil {
		due := b.DueDate.Format(DateLayout)
		item.DueDate = &due
	}
	return item
}

func toBookItems(books []*book.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = ToBookItem(b)
	}
	return items
}
