package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mieluoxxx/aiconfig-hub/internal/config"
	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryPath SQLite 内存库路径
const memoryPath = ":memory:"

// InitDatabase 初始化数据库连接
func InitDatabase(cfg *config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取 SQL DB 失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	// 内存库的每个连接都是独立的数据库
	if cfg.Driver == "sqlite" && cfg.Path == memoryPath {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.WithFields(logrus.Fields{
		"driver":    cfg.Driver,
		"max_open":  maxOpen,
		"max_idle":  cfg.MaxIdleConns,
		"life_time": cfg.ConnMaxLifetime.String(),
	}).Info("数据库连接成功")

	return db, nil
}

// openDialector 根据驱动类型创建 GORM Dialector
func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path != memoryPath {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		return sqlite.Open(cfg.Path), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// AutoMigrate 自动迁移所有数据模型
func AutoMigrate(db *gorm.DB, log *logrus.Logger) error {
	if err := db.AutoMigrate(
		&models.AiConfig{},
		&models.SystemEvent{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Info("数据库迁移完成: sy_ai_config, system_events")
	return nil
}

// CloseDatabase 关闭数据库连接
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取 SQL DB 失败: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("关闭数据库失败: %w", err)
	}

	return nil
}
