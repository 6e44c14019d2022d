package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，同一个Code在服务端和客户端含义一致
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 客户端从响应体还原的AppError与预定义错误不是同一个指针，只能靠Code匹配
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 错误码对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCode 用指定错误码包装底层错误
func WithCode(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）
// - 6xxxx: 客户端本地错误（网络、响应解析），只在客户端产生

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 邮箱或密码错误
	ErrCodeForbidden          = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound = 40401 // 用户不存在
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 注册错误（40000-40099）
	ErrCodeBusinessError  = 40000 // 业务错误(通用)
	ErrCodeEmailDuplicate = 40003 // 邮箱已存在
	ErrCodeInvalidEmail   = 40004 // 邮箱格式不正确
	ErrCodeWeakPassword   = 40005 // 密码强度不足

	// 借还状态冲突（40900-40949）
	ErrCodeAlreadyCheckedOut   = 40910 // 图书已被借出
	ErrCodeNotCheckedOutByUser = 40911 // 图书不是当前用户借出的
	ErrCodeDuplicateEntry      = 40909 // 重复记录(通用)

	// 参数错误（42200-42299）
	ErrCodeInvalidParams = 42200 // 参数错误
	ErrCodeBindError     = 42201 // 参数绑定失败
	ErrCodeInvalidISBN   = 42202 // ISBN格式不正确

	// 客户端本地错误（60000-60099）
	ErrCodeNetwork           = 60001 // 网络不可达或超时
	ErrCodeMalformedResponse = 60002 // 响应格式错误
	ErrCodeSessionExpired    = 60003 // 会话已过期
	ErrCodeServiceDegraded   = 60004 // 熔断中
	ErrCodeLoginRequired     = 60005 // 未登录,本地拒绝
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "登录凭证无效或已过期")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "邮箱或密码错误")
	ErrForbidden          = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound = New(ErrCodeBookNotFound, "图书不存在")

	// 注册
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrInvalidEmail   = New(ErrCodeInvalidEmail, "邮箱格式不正确")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 借还
	ErrAlreadyCheckedOut   = New(ErrCodeAlreadyCheckedOut, "这本书目前不可借阅")
	ErrNotCheckedOutByUser = New(ErrCodeNotCheckedOutByUser, "这本书不是您借出的")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")

	// 客户端
	ErrNetwork           = New(ErrCodeNetwork, "无法连接到服务器，请稍后再试")
	ErrMalformedResponse = New(ErrCodeMalformedResponse, "服务器响应格式错误")
	ErrSessionExpired    = New(ErrCodeSessionExpired, "登录已过期，请重新登录")
	ErrServiceDegraded   = New(ErrCodeServiceDegraded, "服务暂时不可用，请稍后再试")
	ErrLoginRequired     = New(ErrCodeLoginRequired, "请先登录")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsSignupRejected 注册被拒绝（邮箱重复、格式错误、密码太弱）
func IsSignupRejected(err error) bool {
	return errors.Is(err, ErrEmailDuplicate) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword)
}

// IsAuthFailure 请求因为凭证问题被拒绝（未携带、无效或过期）
// 登录接口的InvalidCredentials不算，那是输错了密码
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired)
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code == ErrCodeForbidden:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusConflict
	case code >= 42200 && code < 42300:
		return http.StatusUnprocessableEntity
	case code >= 40000 && code < 40100:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
