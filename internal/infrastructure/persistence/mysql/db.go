package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// 生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 这里使用带GORM tag的模型，不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&IdentityModel{},
		&UserModel{},
		&BookModel{},
		&CheckoutEventModel{},
	)
}

// IdentityModel 身份服务的登录凭据
type IdentityModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (IdentityModel) TableName() string {
	return "identities"
}

// UserModel 本地用户镜像
// domain/user/entity.go是领域实体，不依赖GORM，Repository负责两者之间的转换
type UserModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	IdentityID string    `gorm:"uniqueIndex;size:36;not null;comment:身份服务用户标识"`
	Email      string    `gorm:"size:100;not null;comment:邮箱"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel 图书
// 1. ISBN有唯一索引,按ISBN新增或更新
// 2. is_checked_out与checkout_logs中的未归还记录一一对应
type BookModel struct {
	ID           string     `gorm:"primaryKey;size:36"`
	ISBN         string     `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title        string     `gorm:"index;size:200;not null;comment:书名"` // 列表按书名排序
	Author       string     `gorm:"size:100;not null;comment:作者"`
	IsCheckedOut bool       `gorm:"not null;default:false;comment:是否已借出"`
	DueDate      *time.Time `gorm:"comment:应还日期"`
	CreatedAt    time.Time  `gorm:"comment:创建时间"`
	UpdatedAt    time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CheckoutEventModel 借阅记录
// checkin_date为NULL表示未归还,(book_id, user_id, checkin_date)复合索引服务还书查询
type CheckoutEventModel struct {
	ID           string     `gorm:"primaryKey;size:36"`
	BookID       string     `gorm:"index:idx_book_user_open;size:36;not null;comment:图书ID"`
	UserID       string     `gorm:"index:idx_book_user_open;index;size:36;not null;comment:借阅人"`
	CheckoutDate time.Time  `gorm:"not null;comment:借出时间"`
	CheckinDate  *time.Time `gorm:"index:idx_book_user_open;comment:归还时间"`
}

// TableName 指定表名
func (CheckoutEventModel) TableName() string {
	return "checkout_logs"
}
