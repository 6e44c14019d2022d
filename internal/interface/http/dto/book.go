package dto

// SaveBookRequest HTTP层新增/更新图书请求
// ISBN格式由领域层校验,这里只校验必填
type SaveBookRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Author string `json:"author" binding:"required,max=255"`
	ISBN   string `json:"isbn" binding:"required,max=32"`
}

// MyBooksRequest 我的借阅请求
// UserID可以不传,默认使用Token中的用户
type MyBooksRequest struct {
	UserID string `json:"user_id"`
}
