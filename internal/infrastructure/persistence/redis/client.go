package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewClient 创建Redis客户端并检查连接
// 黑名单和登录会话都存在这里，连不上时服务不启动（无法保证退出登录后Token失效）
// 返回的cleanup关闭连接池
func NewClient(cfg *config.Config, log *zap.Logger) (*redis.Client, func(), error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		ClientName:   "library-api",
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), rc.DialTimeout+rc.ReadTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("Redis连接失败(%s): %w", rc.Addr(), err)
	}

	log.Info("Redis连接成功", zap.String("addr", rc.Addr()), zap.Int("db", rc.DB))
	return client, func() {
		if err := client.Close(); err != nil {
			log.Warn("关闭Redis连接失败", zap.Error(err))
		}
	}, nil
}
