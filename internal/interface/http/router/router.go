// Package router 组装HTTP路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	Book     *handler.BookHandler
	Checkout *handler.CheckoutHandler
	User     *handler.UserHandler
}

// New 创建Gin引擎并注册路由
//
//	公开：GET / GET /ping GET /books POST /signup POST /auth
//	需要登录：POST /my-books GET /user PUT /book PUT /checkout PUT /return
//	只需携带Token：POST /logout
func New(mode string, log *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	gin.SetMode(ginMode(mode))

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logger(log), middleware.Metrics())

	// 连通性检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境通过mode=release关闭文档
	if mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/books", h.Book.ListBooks)
	r.POST("/signup", h.User.SignUp)
	r.POST("/auth", h.User.Login)
	r.POST("/logout", auth.RequireToken(), h.User.Logout)

	authorized := r.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.POST("/my-books", h.Book.MyBooks)
		authorized.PUT("/book", h.Book.SaveBook)
		authorized.PUT("/checkout", h.Checkout.Checkout)
		authorized.PUT("/return", h.Checkout.Return)
		authorized.GET("/user", h.User.CurrentUser)
	}

	return r
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.DebugMode
	}
}
