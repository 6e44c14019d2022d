package api

// Book 图书
type Book struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	ISBN         string  `json:"isbn"`
	IsCheckedOut bool    `json:"is_checked_out"`
	DueDate      *string `json:"due_date"`
}

// SaveBookRequest 新增或更新图书
type SaveBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// SaveBookResult 保存结果
type SaveBookResult struct {
	Book    Book
	Created bool
	Message string
}

// CheckoutReceipt 借书回执
type CheckoutReceipt struct {
	Message      string `json:"message"`
	BookID       string `json:"book_id"`
	UserID       string `json:"user_id"`
	CheckoutTime string `json:"checkout_time"`
	DueDate      string `json:"due_date"`
}

// ReturnReceipt 还书回执
type ReturnReceipt struct {
	Message string `json:"message"`
	BookID  string `json:"book_id"`
}

// SignUpResult 注册结果
type SignUpResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserInfo 当前用户
type UserInfo struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type checkoutBody struct {
	BookID string `json:"book_id"`
	UserID string `json:"user_id,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type myBooksBody struct {
	UserID string `json:"user_id,omitempty"`
}
