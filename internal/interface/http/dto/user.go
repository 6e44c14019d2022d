package dto

// SignUpRequest HTTP层注册请求
// 邮箱格式和密码强度由身份服务校验,返回注册被拒的错误码
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
