package dto

// CheckoutRequest 借书/还书请求
type CheckoutRequest struct {
	BookID string `json:"book_id" binding:"required"`
	UserID string `json:"user_id"` // 必须与Token中的用户一致,为空时使用Token中的用户
}
