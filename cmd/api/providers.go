package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/checkout"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Log    *zap.Logger
	Router *gin.Engine
	Books  book.Repository
}

// provideLogger 从配置创建zap日志
// cleanup时刷新缓冲
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideJWTManager jwt.NewManager只需要JWT相关的配置
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideEngine 借阅期限来自配置
func provideEngine(books book.Repository, events checkout.Repository, tx checkout.TxManager, cfg *config.Config) *checkout.Engine {
	return checkout.NewEngine(books, events, tx, cfg.Checkout.LoanPeriod())
}

// providePublisher mq.enabled=false时使用NopPublisher
// RabbitMQ连不上不阻止服务启动，借还事件只是审计用途
func providePublisher(cfg *config.Config, log *zap.Logger) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		log.Warn("RabbitMQ不可用，借还事件不会发布", zap.Error(err))
		return mq.NopPublisher{}, func() {}, nil
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}, nil
}

// provideRouter 创建Gin引擎并注册路由
func provideRouter(cfg *config.Config, log *zap.Logger, h router.Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	return router.New(cfg.Server.Mode, log, h, auth)
}
