package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/identity"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

const (
	contextKeyUserID = "user_id"
	contextKeyToken  = "token"
)

// AuthMiddleware Bearer Token认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 交给身份服务解析出用户标识（过期、伪造、已登出的Token都在这里被拒绝）
// 3. 将用户标识和原始Token注入Context，登出接口需要原始Token
type AuthMiddleware struct {
	gateway identity.Gateway
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(gateway identity.Gateway) *AuthMiddleware {
	return &AuthMiddleware{gateway: gateway}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/user", userHandler.CurrentUser)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		userID, err := m.gateway.ResolveUser(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(contextKeyUserID, userID)
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

// RequireToken 只要求携带Bearer Token，不校验有效性
// 用于登出：已过期或已登出的Token再次登出也返回成功
func (m *AuthMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

// bearerToken 格式：Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.ErrUnauthorized
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// GetUserID 从Context获取当前登录用户标识，未登录时返回空字符串
func GetUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// GetToken 从Context获取当前请求的Token
func GetToken(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// MustGetUserID 从Context获取用户标识（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) string {
	userID := GetUserID(c)
	if userID == "" {
		panic("user_id not found in context")
	}
	return userID
}
