//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcheckout "github.com/xiebiao/library/internal/application/checkout"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/checkout"
	"github.com/xiebiao/library/internal/domain/identity"
	"github.com/xiebiao/library/internal/infrastructure/config"
	identityinfra "github.com/xiebiao/library/internal/infrastructure/identity"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 日志、数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideLogger,
	mysql.NewDB,
	redis.NewClient,
	provideSessionStore,
	providePublisher,
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewCheckoutRepository,
	mysql.NewUserRepository,
	mysql.NewIdentityRepository,
	mysql.NewTxManager,
	wire.Bind(new(checkout.TxManager), new(*mysql.TxManager)),
)

// identitySet 身份服务
// SessionStore同时承担Token黑名单和登录会话记录
var identitySet = wire.NewSet(
	provideJWTManager,
	identityinfra.NewProvider,
	wire.Bind(new(identity.RevocationStore), new(*redis.SessionStore)),
	wire.Bind(new(identityinfra.SessionRecorder), new(*redis.SessionStore)),
	wire.Bind(new(identity.Gateway), new(*identityinfra.Provider)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
	provideEngine,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewMyBooksUseCase,
	appbook.NewSaveBookUseCase,
	appcheckout.NewCheckoutBookUseCase,
	appcheckout.NewReturnBookUseCase,
	appuser.NewSignUpUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewCurrentUserUseCase,
)

// interfaceSet HTTP处理器、中间件、路由
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewCheckoutHandler,
	handler.NewUserHandler,
	middleware.NewAuthMiddleware,
	wire.Struct(new(router.Handlers), "*"),
	provideRouter,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序释放资源（Redis连接、MQ连接、日志缓冲）
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		identitySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
